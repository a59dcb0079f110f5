package broadcast

import "fmt"

// ErrSubscribeFailed is returned when a Redis subscription cannot be
// established.
type ErrSubscribeFailed struct {
	Topic string
	Err   error
}

func (e ErrSubscribeFailed) Error() string {
	return fmt.Sprintf("broadcast: subscribe to %s failed: %v", e.Topic, e.Err)
}

func (e ErrSubscribeFailed) Unwrap() error {
	return e.Err
}

// ErrPublishFailed is returned when a message cannot be published.
type ErrPublishFailed struct {
	Topic string
	Err   error
}

func (e ErrPublishFailed) Error() string {
	return fmt.Sprintf("broadcast: publish to %s failed: %v", e.Topic, e.Err)
}

func (e ErrPublishFailed) Unwrap() error {
	return e.Err
}
