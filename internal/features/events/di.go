package events

import (
	"bughive/internal/util/logger"
)

var dispatcher = NewDispatcher(logger.GetLogger())

func GetDispatcher() *Dispatcher {
	return dispatcher
}
