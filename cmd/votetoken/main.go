// Command votetoken issues bearer tokens for local testing and operations.
//
//	votetoken -role voter -gov-id 1234567890101 -member A-2291
//	votetoken -role admin -voter ops-1 -ttl 1h
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/danielhkuo/campaign-vote/auth"
	"github.com/danielhkuo/campaign-vote/cliparse"
	"github.com/danielhkuo/campaign-vote/models"
)

func main() {
	if err := cliparse.LoadEnvFile(".env"); err != nil {
		slog.Error("failed to load environment", "error", err)
		os.Exit(1)
	}

	fs := flag.NewFlagSet("votetoken", flag.ExitOnError)
	secret := fs.String("jwt-secret", os.Getenv("JWT_SECRET"), "signing secret (default $JWT_SECRET)")
	role := fs.String("role", models.RoleVoter, "admin or voter")
	voterID := fs.String("voter", "", "opaque voter id")
	govID := fs.String("gov-id", "", "government identifier, combined with -member")
	member := fs.String("member", "", "membership number, combined with -gov-id")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	fs.Parse(os.Args[1:])

	if *secret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	id := *voterID
	if id == "" {
		if *govID == "" || *member == "" {
			slog.Error("either -voter or both -gov-id and -member are required")
			os.Exit(1)
		}
		id = auth.VoterKey(*govID, *member)
	}

	token, err := auth.SignToken(*secret, id, *role, *ttl)
	if err != nil {
		slog.Error("failed to issue token", "error", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
