package session

import (
	"errors"

	"golang.org/x/oauth2"
)

var ErrNoToken = errors.New("no access token in session")

type tokenSource struct {
	store *Store
}

// TokenSource exposes the session's access token, read at call time, as an oauth2.TokenSource.
func TokenSource(store *Store) oauth2.TokenSource {
	return tokenSource{store: store}
}

func (ts tokenSource) Token() (*oauth2.Token, error) {
	tok := ts.store.Token()
	if tok == "" {
		return nil, ErrNoToken
	}
	return &oauth2.Token{AccessToken: tok, TokenType: "Bearer"}, nil
}
