package recipe

import (
	"io"
	"os"

	"github.com/tidwall/gjson"

	"github.com/matzehuels/craftplan/pkg/errors"
	"github.com/matzehuels/craftplan/pkg/rational"
)

// Database is the raw recipe database as loaded from disk. The index
// sections are optional; [NewIndex] derives them from Recipes when absent.
type Database struct {
	Recipes     map[string]*Recipe
	AsMaterials map[string][]string
	AsProducts  map[string][]string
	ByDevice    map[string][]string

	// Order lists recipe ids in document order.
	Order []string
}

// LoadFile reads and parses the recipe database at path.
func LoadFile(path string) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "recipe database %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidDatabase, err, "read %s", path)
	}
	return Parse(data)
}

// Load reads and parses a recipe database from r.
func Load(r io.Reader) (*Database, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDatabase, err, "read recipe database")
	}
	return Parse(data)
}

// Parse parses a recipe database document.
func Parse(data []byte) (*Database, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New(errors.ErrCodeInvalidDatabase, "recipe database is not valid JSON")
	}
	doc := gjson.ParseBytes(data)
	recipes := doc.Get("recipes")
	if !recipes.IsObject() {
		return nil, errors.New(errors.ErrCodeInvalidDatabase, "recipe database has no recipes object")
	}

	db := &Database{Recipes: make(map[string]*Recipe)}

	var parseErr error
	recipes.ForEach(func(key, value gjson.Result) bool {
		r, err := parseRecipe(key.String(), value)
		if err != nil {
			parseErr = err
			return false
		}
		if _, dup := db.Recipes[r.ID]; !dup {
			db.Order = append(db.Order, r.ID)
		}
		db.Recipes[r.ID] = r
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	db.AsMaterials = parseIndex(doc.Get("asMaterials"))
	db.AsProducts = parseIndex(doc.Get("asProducts"))
	db.ByDevice = parseIndex(doc.Get("byDevice"))
	return db, nil
}

func parseRecipe(id string, v gjson.Result) (*Recipe, error) {
	if !v.IsObject() {
		return nil, errors.New(errors.ErrCodeInvalidDatabase, "recipe %s: not an object", id)
	}

	r := &Recipe{
		ID:         id,
		DeviceID:   v.Get("deviceId").String(),
		DeviceName: v.Get("deviceName").String(),
		Duration:   DefaultDuration,
	}

	if t := v.Get("manufacturingTime"); t.Exists() && t.Type != gjson.Null {
		d, err := parseQuantity(t)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDatabase, err, "recipe %s: manufacturingTime", id)
		}
		r.Duration = d
	}

	var err error
	if r.Materials, err = parseStacks(v.Get("materials")); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDatabase, err, "recipe %s: materials", id)
	}
	if r.Products, err = parseStacks(v.Get("products")); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDatabase, err, "recipe %s: products", id)
	}
	return r, nil
}

func parseStacks(v gjson.Result) ([]Stack, error) {
	if !v.Exists() || v.Type == gjson.Null {
		return nil, nil
	}
	if !v.IsArray() {
		return nil, errors.New(errors.ErrCodeInvalidDatabase, "expected an array")
	}

	var stacks []Stack
	for i, s := range v.Array() {
		id := s.Get("id").String()
		if id == "" {
			return nil, errors.New(errors.ErrCodeInvalidDatabase, "entry %d: missing id", i)
		}
		count, err := parseQuantity(s.Get("count"))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDatabase, err, "entry %d (%s): count", i, id)
		}
		if count.Sign() < 0 {
			return nil, errors.New(errors.ErrCodeInvalidDatabase, "entry %d (%s): negative count %s", i, id, count)
		}
		stacks = append(stacks, Stack{ItemID: id, Name: s.Get("name").String(), Count: count})
	}
	return stacks, nil
}

// parseQuantity reads a JSON number or numeric string exactly. Numbers are
// parsed from their raw text so no float rounding is introduced.
func parseQuantity(v gjson.Result) (rational.Rational, error) {
	switch v.Type {
	case gjson.Number:
		return rational.Parse(v.Raw)
	case gjson.String:
		return rational.Parse(v.Str)
	default:
		return rational.Zero, errors.New(errors.ErrCodeInvalidDatabase, "expected a number, got %s", v.Type)
	}
}

func parseIndex(v gjson.Result) map[string][]string {
	if !v.IsObject() {
		return nil
	}
	out := make(map[string][]string)
	v.ForEach(func(key, ids gjson.Result) bool {
		for _, id := range ids.Array() {
			out[key.String()] = append(out[key.String()], id.String())
		}
		return true
	})
	return out
}

// LoadIgnoredDevices reads a device override list of the form
// {"ignoredDevices": ["id", ...]}. A missing file yields no devices.
func LoadIgnoredDevices(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	if !gjson.ValidBytes(data) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s is not valid JSON", path)
	}

	var ids []string
	for _, id := range gjson.GetBytes(data, "ignoredDevices").Array() {
		if s := id.String(); s != "" {
			ids = append(ids, s)
		}
	}
	return ids, nil
}
