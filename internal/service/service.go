// Package service turns the region dataset into render-ready map layers and
// routes pointer events back to map sessions.
package service

import (
	"github.com/IamTkle/capstone1-dashboard/internal/domain"
)

// DataRepository is the dataset source LoadMapData and MapService read from
type DataRepository = domain.DatasetRepository
