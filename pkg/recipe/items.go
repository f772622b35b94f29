package recipe

import (
	"os"

	"github.com/tidwall/gjson"

	"github.com/matzehuels/craftplan/pkg/errors"
)

// Item is a display record from the item lookup. It never takes part in
// planning arithmetic.
type Item struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// Items maps item ids to display records.
type Items map[string]Item

// LoadItems reads the item lookup {"id": {"name": ..., "image": ...}}.
func LoadItems(path string) (Items, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "item lookup %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return ParseItems(data)
}

// ParseItems parses an item lookup document.
func ParseItems(data []byte) (Items, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "item lookup is not valid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "item lookup must be an object")
	}

	items := make(Items)
	doc.ForEach(func(key, value gjson.Result) bool {
		id := key.String()
		items[id] = Item{
			ID:    id,
			Name:  value.Get("name").String(),
			Image: value.Get("image").String(),
		}
		return true
	})
	return items, nil
}

// Name returns the display name for id, or "" when unknown.
func (it Items) Name(id string) string {
	return it[id].Name
}
