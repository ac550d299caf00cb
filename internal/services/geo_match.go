package services

import (
	"strings"

	"github.com/happy-hackers/RoutePlanner-sub000/internal/domain"
)

// MatchDispatchers returns the dispatchers geographically eligible for an
// order's address using strict tier precedence.
//
// The district tier wins outright: if any dispatcher's responsible area
// contains a pair whose district equals the order's district
// (case-insensitive), only district-tier matches are returned. Otherwise
// the area tier is consulted, ignoring the district component. An empty
// result means the order is unmatched. Pure function of its inputs.
func MatchDispatchers(order domain.Order, dispatchers []domain.Dispatcher) []domain.Dispatcher {
	district := strings.TrimSpace(order.District)
	if district != "" {
		byDistrict := make([]domain.Dispatcher, 0, len(dispatchers))
		for _, d := range dispatchers {
			if coversDistrict(d, district) {
				byDistrict = append(byDistrict, d)
			}
		}
		if len(byDistrict) > 0 {
			return byDistrict
		}
	}

	area := strings.TrimSpace(order.Area)
	if area == "" {
		return nil
	}

	byArea := make([]domain.Dispatcher, 0, len(dispatchers))
	for _, d := range dispatchers {
		if coversArea(d, area) {
			byArea = append(byArea, d)
		}
	}
	return byArea
}

func coversDistrict(d domain.Dispatcher, district string) bool {
	for _, pair := range d.ResponsibleArea {
		if pair.District != "" && strings.EqualFold(pair.District, district) {
			return true
		}
	}
	return false
}

func coversArea(d domain.Dispatcher, area string) bool {
	for _, pair := range d.ResponsibleArea {
		if strings.EqualFold(pair.Area, area) {
			return true
		}
	}
	return false
}
