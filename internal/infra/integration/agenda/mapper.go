package agenda

import (
	"sort"

	"github.com/xavierca1/citasalud/internal/entity"
)

// mapAvailabilities pasa la respuesta del upstream al modelo propio y
// ordena con desempate (start_date, start_time, resource_id) para que
// "el primer hueco que encaja" sea determinista.
func mapAvailabilities(in []availabilitySlot) []entity.SlotCandidate {
	out := make([]entity.SlotCandidate, 0, len(in))
	for _, s := range in {
		out = append(out, entity.SlotCandidate{
			StartDate:  s.StartDate,
			StartTime:  s.StartTime,
			EndTime:    s.EndTime,
			ResourceID: s.ResourceID,
			ActivityID: s.ActivityID,
			AreaID:     s.AreaID,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate != out[j].StartDate {
			return out[i].StartDate < out[j].StartDate
		}
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].ResourceID < out[j].ResourceID
	})

	return out
}
