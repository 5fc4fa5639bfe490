package login

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"invapp/frontend/shared/html"
)

// LoginScreen renders the standalone login form.
func LoginScreen(errorMessage string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div class="flex justify-center mt-16"><div class="card bg-base-100 shadow-md w-96"><div class="card-body">`)
		b.WriteString(`<h1 class="card-title">Sign in</h1>`)
		b.WriteString(html.StatusBanner("", errorMessage))
		b.WriteString(`<form method="POST" action="/login" class="flex flex-col gap-3">`)
		b.WriteString(`<label class="form-control"><span class="label-text">Username</span><input class="input input-bordered" type="text" name="username" autocomplete="username" required autofocus></label>`)
		b.WriteString(`<label class="form-control"><span class="label-text">Password</span><input class="input input-bordered" type="password" name="password" autocomplete="current-password" required></label>`)
		b.WriteString(`<button class="btn btn-primary" type="submit">Sign in</button>`)
		b.WriteString(`</form></div></div></div>`)

		_, err := io.WriteString(w, html.RenderLayout("Sign in", "", b.String()))
		return err
	})
}
