package cli

import (
	"context"
	"os"
	"time"

	"github.com/jcastrov/biblio/internal/client/api"
)

// getSimpleText and getPassword are indirections used to facilitate
// testing; they can be swapped for stubs.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials, authenticates against the auth service and
// starts the session, then loads both collections so listings are warm.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Correo", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword("Contraseña", os.Stdout)
	if err != nil {
		return err
	}

	tokens, err := a.auth.Login(ctx, email, password)
	if err != nil {
		printlnFn("No se pudo iniciar sesión:", err)
		return err
	}
	a.session.Start(email, tokens.AccessToken, tokens.RefreshToken)
	a.log.Info(ctx, "session started", "email", email)
	printlnFn("Sesión iniciada.")

	if err := a.autores.Load(ctx); err != nil {
		a.log.Warn(ctx, "initial author load failed", "error", err)
	}
	if err := a.libros.Load(ctx); err != nil {
		a.log.Warn(ctx, "initial book load failed", "error", err)
	}
	return nil
}

// Register prompts for the registration form and creates the account.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Correo", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword("Contraseña", os.Stdout)
	if err != nil {
		return err
	}
	question, err := getSimpleText(a.reader, "Pregunta secreta", os.Stdout)
	if err != nil {
		return err
	}
	answer, err := getSimpleText(a.reader, "Respuesta secreta", os.Stdout)
	if err != nil {
		return err
	}

	msg, err := a.auth.Register(ctx, api.RegisterInput{
		Email:          email,
		Password:       password,
		SecretQuestion: question,
		SecretAnswer:   answer,
	})
	if err != nil {
		printlnFn("No se pudo registrar:", err)
		return err
	}
	if msg == "" {
		msg = "Usuario registrado."
	}
	printlnFn(msg)
	return nil
}

// Recover walks the three-stage credential recovery: email, secret
// question, new password. Remote errors are shown as-is; there is no retry.
func (a *App) Recover(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Correo", os.Stdout)
	if err != nil {
		return err
	}

	question, err := a.auth.SecretQuestion(ctx, email)
	if err != nil {
		printlnFn("No se pudo obtener la pregunta:", err)
		return err
	}
	printlnFn("Pregunta:", question)

	answer, err := getSimpleText(a.reader, "Respuesta", os.Stdout)
	if err != nil {
		return err
	}
	newPassword, err := getPassword("Nueva contraseña", os.Stdout)
	if err != nil {
		return err
	}

	msg, err := a.auth.VerifySecretAnswer(ctx, email, answer, newPassword)
	if err != nil {
		printlnFn("No se pudo recuperar la contraseña:", err)
		return err
	}
	if msg == "" {
		msg = "Contraseña actualizada."
	}
	printlnFn(msg)
	printlnFn("Vuelve a iniciar sesión con 'login'.")
	return nil
}

// Logout tears the session down.
func (a *App) Logout(ctx context.Context) error {
	a.session.Clear()
	a.log.Info(ctx, "session cleared")
	printlnFn("Sesión cerrada.")
	return nil
}

// Status shows who is logged in and how long the bearer token remains valid.
func (a *App) Status(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Sin sesión activa.")
		return nil
	}
	printlnFn("Sesión de", a.session.Email())
	if left, err := a.session.Remaining(time.Now()); err == nil && left > 0 {
		printlnFn("Token válido por", left.Round(time.Second).String())
	}
	return nil
}
