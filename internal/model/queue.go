package model

import (
	"sync"
	"time"
)

type QueuedPlayer struct {
	PlayerID string
	JoinedAt time.Time
}

// Queue holds players waiting for an opponent, longest waiting first.
type Queue struct {
	players []QueuedPlayer
	mu      sync.Mutex
}

func NewQueue() *Queue {
	return &Queue{
		players: []QueuedPlayer{},
	}
}

func (q *Queue) AddPlayer(playerID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, p := range q.players {
		if p.PlayerID == playerID {
			return ErrAlreadyQueued
		}
	}
	q.players = append(q.players, QueuedPlayer{PlayerID: playerID, JoinedAt: time.Now()})
	return nil
}

// Remove takes playerID out of the queue and reports whether it was there.
func (q *Queue) Remove(playerID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, p := range q.players {
		if p.PlayerID == playerID {
			q.players = append(q.players[:i], q.players[i+1:]...)
			return true
		}
	}
	return false
}

// NextPair pops the two players who have waited longest.
func (q *Queue) NextPair() (string, string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.players) < 2 {
		return "", "", false
	}
	first, second := q.players[0].PlayerID, q.players[1].PlayerID
	q.players = q.players[2:]
	return first, second, true
}

func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.players)
}
