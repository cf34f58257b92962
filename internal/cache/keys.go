package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	userKeyPrefix  = "user:%d"
	boardKeyPrefix = "board:%d"
	pinsListKey    = "pins:front"
)

const (
	UserTTL     = 5 * time.Minute
	BoardTTL    = 10 * time.Minute
	PinsListTTL = 30 * time.Second
)

func UserKey(userID uint) string {
	return fmt.Sprintf(userKeyPrefix, userID)
}

func BoardKey(boardID uint) string {
	return fmt.Sprintf(boardKeyPrefix, boardID)
}

func PinsListKey() string {
	return pinsListKey
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidatePinLists drops the cached front-page pin list. Individual
// pins are never cached since their liked and saved flags depend on
// the viewer.
func InvalidatePinLists(ctx context.Context) {
	Invalidate(ctx, pinsListKey)
}

func InvalidateBoard(ctx context.Context, boardID uint) {
	Invalidate(ctx, BoardKey(boardID))
}
