package models

// Category is one of the three severity groups of an AnalysisResult.
type Category int

const (
	CategoryDanger Category = iota
	CategoryWarning
	CategoryGoodPractice
)

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{CategoryDanger, CategoryWarning, CategoryGoodPractice}
}

func (c Category) String() string {
	switch c {
	case CategoryDanger:
		return "danger"
	case CategoryWarning:
		return "warning"
	case CategoryGoodPractice:
		return "good_practice"
	default:
		return "unknown"
	}
}

// Label prefixes numbered items and report rows, e.g. "Warning #2".
func (c Category) Label() string {
	switch c {
	case CategoryDanger:
		return "Danger"
	case CategoryWarning:
		return "Warning"
	case CategoryGoodPractice:
		return "Good Practice"
	default:
		return "Unknown"
	}
}

// TabLabel is the caption of the category's tab.
func (c Category) TabLabel() string {
	switch c {
	case CategoryDanger:
		return "Danger"
	case CategoryWarning:
		return "Warnings"
	case CategoryGoodPractice:
		return "Good"
	default:
		return "Unknown"
	}
}

// EmptyMessage is shown in place of the list when the category has no items.
func (c Category) EmptyMessage() string {
	switch c {
	case CategoryDanger:
		return "No dangerous issues detected."
	case CategoryWarning:
		return "No warnings detected."
	case CategoryGoodPractice:
		return "No good practices found."
	default:
		return ""
	}
}

// Items returns the category's findings from r, nil when r is nil.
func (c Category) Items(r *AnalysisResult) []string {
	if r == nil {
		return nil
	}
	switch c {
	case CategoryDanger:
		return r.Errors
	case CategoryWarning:
		return r.Warnings
	case CategoryGoodPractice:
		return r.GoodPractices
	default:
		return nil
	}
}

// TabKey identifies the category's tab in rendered pages and query strings.
func (c Category) TabKey() string {
	switch c {
	case CategoryDanger:
		return "danger"
	case CategoryWarning:
		return "warnings"
	case CategoryGoodPractice:
		return "good"
	default:
		return ""
	}
}
