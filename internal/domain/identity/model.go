package identity

import (
	"errors"
	"fmt"
)

// Source identifies one of the three external data feeds.
type Source int

const (
	SourceOne   Source = 1
	SourceTwo   Source = 2
	SourceThree Source = 3
)

// Sources lists all recognized feeds in declaration order.
var Sources = []Source{SourceOne, SourceTwo, SourceThree}

var (
	ErrInvalidSource     = errors.New("source must be 1, 2 or 3")
	ErrMissingDependency = errors.New("league identity must be resolved before its teams")
)

func (s Source) Valid() bool {
	return s >= SourceOne && s <= SourceThree
}

func (s Source) Validate() error {
	if !s.Valid() {
		return fmt.Errorf("%w: got %d", ErrInvalidSource, int(s))
	}
	return nil
}

// League is a canonical league identity scoped to one feed.
// Two rows with the same (name, source) pair are the same identity.
type League struct {
	ID     int64
	Name   string
	Source Source
}

func (l League) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	return l.Source.Validate()
}

// Team is a canonical team identity scoped to one feed, owned by a league
// identity from the same feed.
type Team struct {
	ID       int64
	Name     string
	Source   Source
	LeagueID int64
}

func (t Team) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.LeagueID == 0 {
		return fmt.Errorf("team league id is required")
	}
	return t.Source.Validate()
}
