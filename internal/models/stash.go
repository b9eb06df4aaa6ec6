package models

import (
	"encoding/json"
	"fmt"
)

// FolderType is the tab type whose children carry the displayable items.
const FolderType = "Folder"

// StashTab is a stash tab as returned by the trade API. Tabs listed by
// /stash/{league} carry no items; a single fetched tab does.
type StashTab struct {
	ID       string        `json:"id"`
	Parent   string        `json:"parent,omitempty"`
	Name     string        `json:"name"`
	Type     string        `json:"type"`
	Index    int           `json:"index"`
	Metadata StashMetadata `json:"metadata"`
	Children []StashTab    `json:"children,omitempty"`
	Items    []Item        `json:"items,omitempty"`
}

type StashMetadata struct {
	Public bool   `json:"public,omitempty"`
	Folder bool   `json:"folder,omitempty"`
	Colour string `json:"colour,omitempty"`
}

// IsFolder reports whether the tab only groups other tabs.
func (t StashTab) IsFolder() bool {
	return t.Type == FolderType
}

// Item is an item inside a stash tab. Only the fields used for grouping and
// rendering are decoded.
type Item struct {
	ID         string     `json:"id,omitempty"`
	Name       string     `json:"name"`
	TypeLine   string     `json:"typeLine"`
	BaseType   string     `json:"baseType"`
	Icon       string     `json:"icon,omitempty"`
	StackSize  int        `json:"stackSize,omitempty"`
	FrameType  int        `json:"frameType,omitempty"`
	Identified bool       `json:"identified"`
	Corrupted  bool       `json:"corrupted,omitempty"`
	W          int        `json:"w,omitempty"`
	H          int        `json:"h,omitempty"`
	X          int        `json:"x,omitempty"`
	Y          int        `json:"y,omitempty"`
	Note       string     `json:"note,omitempty"`
	Properties []Property `json:"properties,omitempty"`
}

// Quantity is the stack size, 1 when the item is not stackable.
func (i Item) Quantity() int {
	if i.StackSize <= 0 {
		return 1
	}
	return i.StackSize
}

// Property is a name with value pairs, e.g. {"name":"Quality","values":[["+20%",1]]}.
type Property struct {
	Name        string          `json:"name"`
	Values      []PropertyValue `json:"values"`
	DisplayMode int             `json:"displayMode,omitempty"`
	Type        int             `json:"type,omitempty"`
}

// FirstValue returns the text of the first value, or "".
func (p Property) FirstValue() string {
	if len(p.Values) == 0 {
		return ""
	}
	return p.Values[0].Text
}

// PropertyValue is one [text, displayMode] pair.
type PropertyValue struct {
	Text string
	Mode int
}

func (v *PropertyValue) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("property value: %w", err)
	}
	*v = PropertyValue{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw[0], &v.Text); err != nil {
			return fmt.Errorf("property value text: %w", err)
		}
	}
	if len(raw) > 1 {
		if err := json.Unmarshal(raw[1], &v.Mode); err != nil {
			return fmt.Errorf("property value mode: %w", err)
		}
	}
	return nil
}

func (v PropertyValue) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{v.Text, v.Mode})
}
