// Command democlient walks through the appointment workflow against a running
// API: register, login, create, list, confirm, fetch.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/schedulr/appointments-api/pkg/apiclient"
	"github.com/schedulr/appointments-api/pkg/logger"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "API base URL")
	email := flag.String("email", "alice@example.com", "account email")
	password := flag.String("password", "wonderland", "account password")
	flag.Parse()

	log := logger.New(logger.Options{Pretty: true})
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, apiclient.New(*baseURL, nil), *email, *password, log); err != nil {
		log.Error().Err(err).Msg("demo failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, client *apiclient.Client, email, password string, log zerolog.Logger) error {
	_, err := client.Register(ctx, email, password, "Alice")
	var apiErr *apiclient.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict:
		log.Info().Str("email", email).Msg("account exists, logging in")
	case err != nil:
		return err
	default:
		log.Info().Str("email", email).Msg("registered")
	}

	login, err := client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	log.Info().Str("user_id", login.User.ID).Time("expires_at", login.ExpiresAt).Msg("logged in")

	tomorrow := time.Now().AddDate(0, 0, 1)
	start := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 9, 0, 0, 0, time.Local)
	created, err := client.CreateAppointment(ctx, apiclient.NewAppointment{
		Title:     "Checkup",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	if err != nil {
		return err
	}
	log.Info().Str("appointment_id", created.ID).Str("status", created.Status).Msg("appointment created")

	mine, err := client.MyAppointments(ctx)
	if err != nil {
		return err
	}
	for _, a := range mine {
		log.Info().Str("appointment_id", a.ID).Str("title", a.Title).Time("start", a.StartTime).Str("status", a.Status).Msg("my appointment")
	}

	if _, err := client.UpdateAppointment(ctx, created.ID, map[string]any{"status": "confirmed"}); err != nil {
		return err
	}

	got, err := client.Appointment(ctx, created.ID)
	if err != nil {
		return err
	}
	if got == nil {
		return errors.New("appointment vanished after update")
	}
	log.Info().
		Str("appointment_id", got.ID).
		Str("status", got.Status).
		Time("updated_at", got.UpdatedAt).
		Msg("appointment confirmed")
	return nil
}
