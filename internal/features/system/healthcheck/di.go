package system_healthcheck

import (
	"bughive/internal/downdetect"
	"bughive/internal/util/logger"
)

var healthcheckService = &HealthcheckService{
	downdetect.GetDowndetectService(),
	logger.GetLogger(),
}
var healthcheckController = &HealthcheckController{
	healthcheckService,
}

func GetHealthcheckController() *HealthcheckController {
	return healthcheckController
}
