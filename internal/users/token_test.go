package users_test

import (
	"testing"
	"time"

	"RecordStore/internal/users"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := users.NewTokenMaker("secret")

	u := users.User{ID: "u1", Username: "alice", Email: "a@x.com"}
	tok, err := tm.New(u, time.Minute)
	if err != nil {
		t.Fatalf("new token: %v", err)
	}

	claims, err := tm.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "u1" || claims.Username != "alice" || claims.Email != "a@x.com" {
		t.Fatalf("claims %+v", claims)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	tok, err := users.NewTokenMaker("secret-a").New(users.User{ID: "u1"}, time.Minute)
	if err != nil {
		t.Fatalf("new token: %v", err)
	}

	if _, err := users.NewTokenMaker("secret-b").Parse(tok); err == nil {
		t.Fatal("token signed with another secret accepted")
	}
}

func TestTokenExpired(t *testing.T) {
	tm := users.NewTokenMaker("secret")

	tok, err := tm.New(users.User{ID: "u1"}, -time.Minute)
	if err != nil {
		t.Fatalf("new token: %v", err)
	}

	if _, err := tm.Parse(tok); err == nil {
		t.Fatal("expired token accepted")
	}
}
