// Package reqrep binds module handlers to mono request-reply services with
// JSON codecs.
package reqrep

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Registration registers one service on a container.
type Registration func(container mono.ServiceContainer) error

// Handle returns a Registration for a typed handler under name.
func Handle[Req, Resp any](name string, handler func(context.Context, Req, *mono.Msg) (Resp, error)) Registration {
	return func(container mono.ServiceContainer) error {
		if err := helper.RegisterTypedRequestReplyService(
			container,
			name,
			json.Unmarshal,
			json.Marshal,
			handler,
		); err != nil {
			return fmt.Errorf("failed to register %s service: %w", name, err)
		}
		return nil
	}
}

// RegisterAll applies every registration in order, stopping at the first error.
func RegisterAll(container mono.ServiceContainer, registrations ...Registration) error {
	for _, register := range registrations {
		if err := register(container); err != nil {
			return err
		}
	}
	return nil
}

// Call invokes service on container, JSON-encoding req and decoding into resp.
func Call(ctx context.Context, container mono.ServiceContainer, service string, req, resp any) error {
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return fmt.Errorf("%s request failed: %w", service, err)
	}
	return nil
}
