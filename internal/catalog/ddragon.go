/*
Package catalog
File: ddragon.go
Description:
    Decoding and validation of the Data Dragon item.json document.
    The raw document keys items by their id as a string and references
    crafting edges as strings; Decode validates every record against the
    `validate` tags below and converts it into a game.Item.

    Any invalid record fails the whole document.
*/

package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/everforgeworks/rift-armory/internal/game"
)

// ErrValidation wraps every decoding or schema error in a catalog document.
var ErrValidation = errors.New("catalog validation failed")

// Document is the top level of item.json.
type Document struct {
	Type    string             `json:"type" validate:"eq=item"`
	Version string             `json:"version" validate:"required"`
	Basic   json.RawMessage    `json:"basic"`
	Data    map[string]RawItem `json:"data" validate:"required"` // Records are validated one by one
	Groups  []RawGroup         `json:"groups"`
	Tree    json.RawMessage    `json:"tree"`
}

// RawGroup is an ownership group ("MaxGroupOwnable" is a string in the feed).
type RawGroup struct {
	ID              string `json:"id"`
	MaxGroupOwnable string `json:"MaxGroupOwnable"`
}

// RawItem is one entry of Document.Data as published.
type RawItem struct {
	Name             string             `json:"name" validate:"required"`
	Description      string             `json:"description"`
	Plaintext        string             `json:"plaintext"`
	Image            *game.Image        `json:"image" validate:"required"`
	Into             []string           `json:"into" validate:"omitempty,dive,number"`
	From             []string           `json:"from" validate:"omitempty,dive,number"`
	Maps             map[string]bool    `json:"maps" validate:"required_maps"`
	Gold             *game.Gold         `json:"gold" validate:"required"` // Prices are checked by game.Gold's own tags
	Stats            map[string]float64 `json:"stats" validate:"omitempty,dive,keys,known_stat,endkeys"`
	Tags             []string           `json:"tags" validate:"required,dive,known_tag"`
	Depth            *int               `json:"depth" validate:"omitempty,gte=1"`
	Consumed         *bool              `json:"consumed"`
	ConsumeOnFull    *bool              `json:"consumeOnFull"`
	RequiredChampion string             `json:"requiredChampion"`
}

// KnownTags lists every tag the shop understands.
var KnownTags = map[string]bool{
	"Boots": true, "ManaRegen": true, "HealthRegen": true, "Health": true,
	"CriticalStrike": true, "SpellDamage": true, "Mana": true, "Armor": true,
	"SpellBlock": true, "LifeSteal": true, "SpellVamp": true, "Jungle": true,
	"Damage": true, "Lane": true, "AttackSpeed": true, "OnHit": true,
	"Trinket": true, "Active": true, "Consumable": true, "CooldownReduction": true,
	"ArmorPenetration": true, "AbilityHaste": true, "Stealth": true, "Vision": true,
	"NonbootsMovement": true, "Tenacity": true, "MagicPenetration": true,
	"Aura": true, "Slow": true, "MagicResist": true, "GoldPer": true,
}

// KnownStats lists every stat key the shop understands.
var KnownStats = map[string]bool{
	"FlatMovementSpeedMod": true, "FlatHPPoolMod": true, "FlatCritChanceMod": true,
	"FlatMagicDamageMod": true, "FlatMPPoolMod": true, "FlatArmorMod": true,
	"FlatSpellBlockMod": true, "FlatPhysicalDamageMod": true,
	"PercentAttackSpeedMod": true, "PercentLifeStealMod": true,
	"FlatHPRegenMod": true, "PercentMovementSpeedMod": true,
}

// RequiredMaps are the map ids every item must declare availability for.
var RequiredMaps = []string{"11", "12", "21", "22", "30", "33"}

var (
	validate     *validator.Validate
	validateOnce sync.Once
	errValidate  error
)

// getValidator returns the shared validator, registering the catalog rules once.
func getValidator() (*validator.Validate, error) {
	validateOnce.Do(func() {
		validate, errValidate = newValidator()
	})
	return validate, errValidate
}

func newValidator() (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their item.json name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("known_tag", func(fl validator.FieldLevel) bool {
		return KnownTags[fl.Field().String()]
	}); err != nil {
		return nil, fmt.Errorf("register known_tag: %w", err)
	}

	if err := v.RegisterValidation("known_stat", func(fl validator.FieldLevel) bool {
		return KnownStats[fl.Field().String()]
	}); err != nil {
		return nil, fmt.Errorf("register known_stat: %w", err)
	}

	if err := v.RegisterValidation("required_maps", func(fl validator.FieldLevel) bool {
		maps, ok := fl.Field().Interface().(map[string]bool)
		if !ok {
			return false
		}
		for _, m := range RequiredMaps {
			if _, ok := maps[m]; !ok {
				return false
			}
		}
		return true
	}); err != nil {
		return nil, fmt.Errorf("register required_maps: %w", err)
	}

	return v, nil
}

// describe flattens validator errors into one readable error per field.
func describe(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		errs = append(errs, fmt.Errorf("%s: fails %s (value %v)", fe.Namespace(), rule, fe.Value()))
	}
	return errors.Join(errs...)
}

// Entry is a decoded item paired with the fields the filter stage needs
// but game.Item does not carry.
type Entry struct {
	Item             game.Item
	RequiredChampion string
}

// Decode parses and validates an item.json payload.
// Entries are returned ordered by id so downstream stages are deterministic.
func Decode(payload []byte) ([]Entry, error) {
	var doc Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrValidation, err)
	}
	return doc.Entries()
}

// Entries validates the document and converts every record.
func (d Document) Entries() ([]Entry, error) {
	v, err := getValidator()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	// 1. Document envelope
	if err := v.Struct(d); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, describe(err))
	}

	// 2. Every record; all failures are reported, in a stable order
	var errs []error
	entries := make([]Entry, 0, len(d.Data))
	for key, raw := range d.Data {
		entry, err := raw.toEntry(v, key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		entries = append(entries, entry)
	}
	if len(errs) > 0 {
		sort.Slice(errs, func(i, j int) bool { return errs[i].Error() < errs[j].Error() })
		return nil, fmt.Errorf("%w: %w", ErrValidation, errors.Join(errs...))
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Item.ID < entries[j].Item.ID })
	return entries, nil
}

// parseKey accepts only the canonical decimal form of a positive id, so two
// keys such as "1001" and "+1001" can never name the same item.
func parseKey(key string) (int, error) {
	id, err := strconv.Atoi(key)
	if err != nil || id <= 0 || strconv.Itoa(id) != key {
		return 0, fmt.Errorf("item %q: id is not a canonical positive integer", key)
	}
	return id, nil
}

func (r RawItem) toEntry(v *validator.Validate, key string) (Entry, error) {
	id, err := parseKey(key)
	if err != nil {
		return Entry{}, err
	}
	if err := v.Struct(r); err != nil {
		return Entry{}, fmt.Errorf("item %d: %w", id, describe(err))
	}

	into, err := parseIDs(r.Into)
	if err != nil {
		return Entry{}, fmt.Errorf("item %d: into: %w", id, err)
	}
	from, err := parseIDs(r.From)
	if err != nil {
		return Entry{}, fmt.Errorf("item %d: from: %w", id, err)
	}

	return Entry{
		Item: game.Item{
			ID:            id,
			Name:          r.Name,
			Description:   r.Description,
			Plaintext:     r.Plaintext,
			Image:         *r.Image,
			Gold:          *r.Gold,
			Tags:          r.Tags,
			Stats:         r.Stats,
			Into:          into,
			From:          from,
			Depth:         r.Depth,
			Consumed:      r.Consumed,
			ConsumeOnFull: r.ConsumeOnFull,
			Maps:          r.Maps,
		},
		RequiredChampion: r.RequiredChampion,
	}, nil
}

// parseIDs keeps nil as nil: an absent edge list differs from an empty one.
func parseIDs(raw []string) ([]int, error) {
	if raw == nil {
		return nil, nil
	}
	ids := make([]int, 0, len(raw))
	for _, s := range raw {
		id, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("id %q is not numeric", s)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
