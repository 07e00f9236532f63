package core

import "context"

// Media is the native media element the controller drives.
//
// Commands are requests: their outcome arrives later on Events. Implementations
// must be safe to call from a goroutine other than the one reading Events.
type Media interface {
	Load(ctx context.Context, src Source) error
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Seek(ctx context.Context, seconds float64) error
	// SetVolume takes a level in [0,1].
	SetVolume(ctx context.Context, level float64) error
	RequestFullscreen(ctx context.Context) error
	ExitFullscreen(ctx context.Context) error

	// Events delivers native signals. It is closed when the media shuts down.
	Events() <-chan Event

	Close() error
}
