// utils/firebase.go
package utils

import (
	"context"
	"log"

	"timeline/config"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

var (
	// AuthClient verifies Firebase ID tokens.
	AuthClient *auth.Client
	// FirestoreClient talks to the schedules document store.
	FirestoreClient *firestore.Client
)

// FirebaseInit initializes the Firebase App, Auth and Firestore clients.
func FirebaseInit() {
	ctx := context.Background()
	opt := option.WithCredentialsFile(config.AppConfig.FirebaseCredentialsFile)

	var fbConfig *firebase.Config
	if config.AppConfig.FirebaseProjectID != "" {
		fbConfig = &firebase.Config{ProjectID: config.AppConfig.FirebaseProjectID}
	}

	app, err := firebase.NewApp(ctx, fbConfig, opt)
	if err != nil {
		log.Fatalf("firebase: error initializing app: %v", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		log.Fatalf("firebase: error getting Auth client: %v", err)
	}
	AuthClient = authClient

	if config.AppConfig.StoreBackend == "firestore" {
		fsClient, err := app.Firestore(ctx)
		if err != nil {
			log.Fatalf("firebase: error getting Firestore client: %v", err)
		}
		FirestoreClient = fsClient
	}
}
