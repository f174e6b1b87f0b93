package services

import (
	"context"
)

// Resettable drops a shared connection so it is rebuilt on next use.
type Resettable interface {
	Reset()
}

// Lifecycle mirrors plugin activation: settings are loaded on Activate and
// the shared storage client is dropped on Deactivate.
type Lifecycle struct {
	resolver *SettingsResolver
	store    Resettable
}

func NewLifecycle(resolver *SettingsResolver, store Resettable) *Lifecycle {
	return &Lifecycle{resolver: resolver, store: store}
}

func (l *Lifecycle) Activate(ctx context.Context) error {
	_, err := l.resolver.Refresh(ctx)
	return err
}

func (l *Lifecycle) Deactivate() {
	l.store.Reset()
}
