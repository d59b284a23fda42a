package lifecycle

import (
	"sort"

	"github.com/evtrading/evmarket-gateway/pkg/enums"
	"github.com/evtrading/evmarket-gateway/pkg/types"
)

// statusRank fixes the display order for a seller's own listings. Statuses
// outside the table sort after everything ranked.
var statusRank = []enums.ListingStatus{
	enums.ListingStatusActive,
	enums.ListingStatusSold,
	enums.ListingStatusProcessing,
	enums.ListingStatusPending,
	enums.ListingStatusFlagged,
	enums.ListingStatusRejected,
}

func rankOf(status enums.ListingStatus) int {
	for i, candidate := range statusRank {
		if candidate == status {
			return i
		}
	}
	return len(statusRank)
}

// payingStatuses marks listings awaiting money movement.
var payingStatuses = map[enums.ListingStatus]bool{
	enums.ListingStatusPending:            true,
	enums.ListingStatusProcessing:         true,
	enums.ListingStatus("PARTIALLY_PAID"): true,
}

func matches(status enums.ListingStatus, filter enums.ViewFilter) bool {
	switch filter {
	case enums.ViewFilterAll:
		return true
	case enums.ViewFilterPaying:
		return payingStatuses[status]
	case enums.ViewFilterActive:
		return status == enums.ListingStatusActive
	case enums.ViewFilterSold:
		return status == enums.ListingStatusSold
	case enums.ViewFilterFlagged:
		return status.IsEditable()
	default:
		return false
	}
}

// Project filters a seller's listings by the view filter and orders them by
// status rank. The sort is stable: within a status, backend order is
// preserved. The input slice is never modified.
func Project(listings []types.Listing, filter enums.ViewFilter) []types.Listing {
	out := make([]types.Listing, 0, len(listings))
	for _, l := range listings {
		if matches(l.Status, filter) {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return rankOf(out[i].Status) < rankOf(out[j].Status)
	})
	return out
}
