// Package services contains the business logic of JournalKeeper: encryption
// of user content, the word index, streaks, backups and key rotation.
// Services receive an authenticated models.Auth carrying the user's
// encryption key and talk to storage through the repository manager.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/journalkeeper/internal/models"
	"github.com/dmitrijs2005/journalkeeper/internal/timex"
)

// ComputeStreaks derives streak statistics from entry timestamps.
//
// Each entry is bucketed into a calendar day using its own timezone offset,
// so an entry keeps the day it was written on even when viewed from another
// timezone. "Today" and "yesterday" are resolved in the viewer's offset.
// The current streak counts consecutive days with entries ending today or
// yesterday; the longest streak scans the whole history. RunningOut is set
// when yesterday has an entry but today does not yet.
//
// entries must be ordered newest first, as returned by SelectTimeline.
func ComputeStreaks(entries []models.EntryTimes, clientTzOffset float64, now int64) models.Streaks {
	if len(entries) < 1 {
		return models.Streaks{}
	}

	today := timex.DayFromTimestamp(now, clientTzOffset)
	yesterday := timex.DayFromTimestamp(now-86400, clientTzOffset)

	// group entries by day
	entriesOnDay := make(map[timex.Day]bool, len(entries))
	for _, e := range entries {
		entriesOnDay[timex.DayFromTimestamp(e.Created, e.CreatedTzOffset)] = true
	}

	// streaks are running out when we made an entry yesterday but not today
	runningOut := !entriesOnDay[today] && entriesOnDay[yesterday]

	current := 0
	currentDay := today
	if !entriesOnDay[currentDay] {
		currentDay = yesterday
	}
	// find the current streak by counting backwards from today until
	// we find a day without an entry
	for entriesOnDay[currentDay] {
		current++
		currentDay = currentDay.Prev()
	}

	longest := current
	currentStreak := 0

	first := entries[len(entries)-1]
	firstDay := timex.DayFromTimestamp(first.Created, first.CreatedTzOffset)

	currentDay = today
	// find the longest streak by counting backwards from today until the
	// first entry's day; future-dated entries past today are ignored
	for currentDay > firstDay {
		currentDay = currentDay.Prev()
		if entriesOnDay[currentDay] {
			currentStreak++
			if currentStreak > longest {
				longest = currentStreak
			}
		} else {
			currentStreak = 0
		}
	}

	return models.Streaks{Current: current, Longest: longest, RunningOut: runningOut}
}

// GetStreaks loads the user's entry timeline and computes streak statistics
// in the viewer's timezone offset.
func (s *EntryService) GetStreaks(ctx context.Context, auth *models.Auth, clientTzOffset float64, now int64) (*models.Streaks, error) {
	repo := s.repomanager.Entries(s.db)
	times, err := repo.SelectTimeline(ctx, auth.UserID)
	if err != nil {
		return nil, fmt.Errorf("error loading entry timeline: %w", err)
	}
	streaks := ComputeStreaks(times, clientTzOffset, now)
	return &streaks, nil
}
