package coordinator

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"tableflip.dev/pomo/pkg/session"
)

// Notifier tells the user that a session finished.
type Notifier interface {
	Notify(title, message string) error
	PlaySound(t session.Type, sound string) error
}

// LogNotifier writes notifications to a zap logger.
type LogNotifier struct {
	Log *zap.Logger
}

func (n LogNotifier) Notify(title, message string) error {
	n.Log.Info(title, zap.String("message", message))
	return nil
}

func (n LogNotifier) PlaySound(t session.Type, sound string) error {
	n.Log.Debug("play sound", zap.Stringer("session", t), zap.String("sound", sound))
	return nil
}

// BellNotifier prints notifications to a terminal and rings its bell.
type BellNotifier struct {
	Out io.Writer
}

func (n BellNotifier) Notify(title, message string) error {
	_, err := fmt.Fprintf(n.Out, "%s %s\n", title, message)
	return err
}

func (n BellNotifier) PlaySound(session.Type, string) error {
	_, err := io.WriteString(n.Out, "\a")
	return err
}

// Notifiers fans out to every notifier in order.
type Notifiers []Notifier

func (ns Notifiers) Notify(title, message string) error {
	var errs []error
	for _, n := range ns {
		errs = append(errs, n.Notify(title, message))
	}
	return errors.Join(errs...)
}

func (ns Notifiers) PlaySound(t session.Type, sound string) error {
	var errs []error
	for _, n := range ns {
		errs = append(errs, n.PlaySound(t, sound))
	}
	return errors.Join(errs...)
}
