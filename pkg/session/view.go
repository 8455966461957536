package session

import (
	"fmt"

	"github.com/japaniel/vocabreader/pkg/annotate"
	"github.com/japaniel/vocabreader/pkg/glossary"
)

// SavedEntry is a saved key with its glossary entry.
type SavedEntry struct {
	Key string `json:"key"`
	glossary.Entry
}

// PageView is everything a surface needs to draw one page.
type PageView struct {
	User         string                 `json:"user"`
	Title        string                 `json:"title,omitempty"`
	Page         int                    `json:"page"`
	Pages        int                    `json:"pages"`
	Start        int                    `json:"start"`
	End          int                    `json:"end"`
	Total        int                    `json:"total"`
	HasPrevious  bool                   `json:"has_previous"`
	HasNext      bool                   `json:"has_next"`
	Mode         string                 `json:"mode"`
	Instructions []annotate.Instruction `json:"tokens"`
	Saved        []SavedEntry           `json:"saved"`
}

// Status describes the position, e.g. "Words 1-1000 of 2500 (page 1/3)".
func (v PageView) Status() string {
	first := v.Start + 1
	if v.End == 0 {
		first = 0
	}
	pageNo := v.Page + 1
	if v.Pages == 0 {
		pageNo = 0
	}
	return fmt.Sprintf("Words %d-%d of %d (page %d/%d)", first, v.End, v.Total, pageNo, v.Pages)
}
