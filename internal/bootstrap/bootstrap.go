// Package bootstrap opens the configured document store and the identity
// verifier that goes with it.
package bootstrap

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/NischalAcharya060/GearZone-sub001/internal/config"
	"github.com/NischalAcharya060/GearZone-sub001/internal/database"
	"github.com/NischalAcharya060/GearZone-sub001/internal/database/memory"
	"github.com/NischalAcharya060/GearZone-sub001/internal/identity"

	Firestore "firebase.google.com/go/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

type Backend struct {
	Store    database.Client
	Verifier identity.Verifier
}

// Open connects to Firestore, or builds an in-memory store whose verifier
// trusts the user id it is given.
func Open(ctx context.Context, cnf config.Config) (Backend, error) {
	if cnf.Database.Driver == config.DriverMemory {
		log.Warn().Msg("using the in-memory store, data is lost on exit")
		return Backend{Store: memory.New(), Verifier: identity.TrustedVerifier{}}, nil
	}

	app, err := createFirestoreApp(ctx, cnf.Firebase)
	if err != nil {
		return Backend{}, err
	}

	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		return Backend{}, fmt.Errorf("create firestore client: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		firestoreClient.Close()
		return Backend{}, fmt.Errorf("create auth client: %w", err)
	}

	return Backend{
		Store:    database.New(firestoreClient, cnf.WriteTimeoutSecond),
		Verifier: identity.NewFirebaseVerifier(authClient),
	}, nil
}

func OpenOrPanic(ctx context.Context, cnf config.Config) Backend {
	backend, err := Open(ctx, cnf)
	if err != nil {
		panic(err)
	}
	return backend
}

func createFirestoreApp(ctx context.Context, cnf config.Firebase) (*Firestore.App, error) {
	FirestoreCreds, err := json.Marshal(cnf)
	if err != nil {
		return nil, err
	}

	sa := option.WithCredentialsJSON(FirestoreCreds)
	app, err := Firestore.NewApp(ctx, &Firestore.Config{ProjectID: cnf.ProjectId}, sa)
	if err != nil {
		return nil, fmt.Errorf("create firebase app: %w", err)
	}
	return app, nil
}

// SetupLogger applies the configured level and, when pretty, switches the
// global logger to console output.
func SetupLogger(cnf config.Log) {
	level, err := zerolog.ParseLevel(cnf.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cnf.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
