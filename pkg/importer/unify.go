package importer

import (
	"github.com/rs/zerolog/log"
	"github.com/warped-finance/backend/pkg/models"
	"golang.org/x/exp/slices"
)

// Unify filters and orders the records of all sources and assigns their IDs.
//
// Records without category or group and records without a date are dropped.
// The remaining records are sorted by date, most recent first, and numbered so
// that the oldest record has the ID "00001" and the most recent one the highest ID.
// Records with the same date keep their input order. Records numbered beyond
// models.MaxTransactionNumber get IDs the loader rejects, this is logged.
func Unify(records []Record) []Record {
	unified := make([]Record, 0, len(records))

	var dropped int
	for _, r := range records {
		if r.blank() || r.Category == "" || r.GroupName == "" {
			dropped++
			continue
		}

		if r.Date.IsZero() {
			log.Warn().Str("description", r.Description).Str("source", r.Source).Msg("unify: dropping record without date")
			dropped++
			continue
		}

		r.Tags = slices.Clone(r.Tags)
		unified = append(unified, r)
	}

	slices.SortStableFunc(unified, func(a, b Record) int {
		return b.Date.Time().Compare(a.Date.Time())
	})

	for i := range unified {
		unified[i].ID = models.FormatTransactionID(len(unified) - i)
	}

	if excess := len(unified) - models.MaxTransactionNumber; excess > 0 {
		log.Warn().Int("records", len(unified)).Int("max", models.MaxTransactionNumber).Int("unloadable", excess).Msg("unify: too many records, the most recent ones have IDs that cannot be loaded")
	}

	log.Info().Int("records", len(unified)).Int("dropped", dropped).Msg("unify: done")
	return unified
}
