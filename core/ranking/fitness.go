package ranking

import (
	"math"
	"time"

	"github.com/kilianp07/induction/core/model"
)

type fitnessFeature struct {
	validTill   *time.Time
	state       model.FitnessState
	daysLeft    int
	priorityRaw float64
}

// missingFitness is the feature of a train without any parseable certificate.
// It floors to the same day count as an expired one but keeps maximum raw
// urgency.
func missingFitness() fitnessFeature {
	return fitnessFeature{state: model.FitnessUnknown, daysLeft: 0, priorityRaw: 1}
}

// extractFitness keeps the soonest-expiring certificate per train and derives
// days left and raw fitness urgency.
func extractFitness(certs []model.FitnessCertificate, now time.Time) map[string]fitnessFeature {
	earliest := make(map[string]time.Time)
	for _, c := range certs {
		if c.ValidTo == nil {
			continue
		}
		if cur, ok := earliest[c.TrainID]; !ok || c.ValidTo.Before(cur) {
			earliest[c.TrainID] = *c.ValidTo
		}
	}
	out := make(map[string]fitnessFeature, len(earliest))
	for id, till := range earliest {
		till := till
		days := int(math.Floor(till.Sub(now).Hours() / 24))
		f := fitnessFeature{validTill: &till}
		if days < 0 {
			f.state = model.FitnessExpired
			f.daysLeft = 0
			f.priorityRaw = 0
		} else {
			f.state = model.FitnessValid
			f.daysLeft = days
			f.priorityRaw = 1 / (1 + float64(days))
		}
		out[id] = f
	}
	return out
}

func (f fitnessFeature) apply(r *model.TrainRecord) {
	r.FitnessValidTill = f.validTill
	r.FitnessState = f.state
	r.FitnessDaysLeft = f.daysLeft
	r.FitnessPriorityRaw = f.priorityRaw
}
