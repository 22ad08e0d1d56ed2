package database

import (
	"context"
	"errors"
	"net"

	"carbook/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"
)

// ClassifyMongoError wraps transient Mongo failures as models.ErrUnavailable.
// Other errors are returned unchanged.
func ClassifyMongoError(op string, err error) error {
	if err == nil {
		return nil
	}
	var selErr topology.ServerSelectionError
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled),
		mongo.IsTimeout(err), mongo.IsNetworkError(err), errors.As(err, &selErr):
		return models.Unavailable(op, err)
	}
	return err
}

// ClassifyNetError wraps timeouts and network failures from any driver.
func ClassifyNetError(op string, err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled), errors.As(err, &netErr):
		return models.Unavailable(op, err)
	}
	return err
}
