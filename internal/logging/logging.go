// Package logging configures the structured logger used throughout tessera
// for recoverable, per-item failures (degenerate cells, routing timeouts,
// dropped generators). Structural failures are still returned as errors;
// this logger exists only for the "logged, not fatal" cases spec §7 calls
// out explicitly.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a logger configured with a plain text formatter and the
// given level. Pass logrus.InfoLevel for normal operation,
// logrus.DebugLevel to trace per-cell/per-query recovery decisions.
func New(level logrus.Level) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return log
}

// WithFacility returns an entry scoped to a facility id, for use around
// VoronoiEngine/WeightedVoronoi/RoadVoronoi per-generator recovery paths.
func WithFacility(log *logrus.Logger, facilityID string) *logrus.Entry {
	return log.WithField("facility_id", facilityID)
}

// WithDistrict returns an entry scoped to a district, for use around
// PopulationWeigher attribution.
func WithDistrict(log *logrus.Logger, state, district string) *logrus.Entry {
	return log.WithFields(logrus.Fields{"state": state, "district": district})
}
