package gallery

// PageItem is one entry in a rendered pagination strip: either a concrete
// page number or a gap shown as an ellipsis.
type PageItem struct {
	Page int
	Gap  bool
}

// Window returns the pagination items to render for a strip of total pages
// with current selected. Up to seven pages render in full; beyond that the
// strip keeps the first and last page visible and windows around current:
//
//	total=20 current=1  -> 1 2 3 4 5 ... 20
//	total=20 current=10 -> 1 ... 9 10 11 ... 20
//	total=20 current=18 -> 1 ... 16 17 18 19 20
func Window(total, current int) []PageItem {
	if total <= 0 {
		return nil
	}
	if total <= 7 {
		items := make([]PageItem, 0, total)
		for p := 1; p <= total; p++ {
			items = append(items, PageItem{Page: p})
		}
		return items
	}

	items := make([]PageItem, 0, 9)
	switch {
	case current <= 4:
		for p := 1; p <= 5; p++ {
			items = append(items, PageItem{Page: p})
		}
		items = append(items, PageItem{Gap: true}, PageItem{Page: total})
	case current >= total-3:
		items = append(items, PageItem{Page: 1}, PageItem{Gap: true})
		for p := total - 4; p <= total; p++ {
			items = append(items, PageItem{Page: p})
		}
	default:
		items = append(items, PageItem{Page: 1}, PageItem{Gap: true})
		for p := current - 1; p <= current+1; p++ {
			items = append(items, PageItem{Page: p})
		}
		items = append(items, PageItem{Gap: true}, PageItem{Page: total})
	}
	return items
}
