package downdetect

import (
	"bughive/internal/features/search"
)

var downdetectService = &DowndetectService{
	search.GetSearchRepository(),
}
var downdetectController = &DowndetectController{
	downdetectService,
}

func GetDowndetectService() *DowndetectService {
	return downdetectService
}

func GetDowndetectController() *DowndetectController {
	return downdetectController
}
