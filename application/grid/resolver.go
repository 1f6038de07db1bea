package grid

import (
	"totvs_automation/domain/entities"
)

// TargetKind says how a logical target is acted on
type TargetKind int

const (
	// TargetLocator is found through the locator table
	TargetLocator TargetKind = iota
	// TargetRow is a grid row, driven through the grid's index API
	TargetRow
	// TargetEdit is the "open edit form" hook of the application
	TargetEdit
)

// Target is a resolved logical target
type Target struct {
	Name    string
	Kind    TargetKind
	Locator entities.Locator
}

var (
	rowAliases  = []string{"row", "linha", "linha da grid", "row of the grid"}
	editAliases = []string{"edit", "editar", "btn editar", "edit button"}
)

var defaultTargets = map[string]entities.Locator{
	"dados fiscais": {By: entities.ByCSS, Value: "a[href='#dadosFiscais'], [data-target='#dadosFiscais']"},
	"cancelar":      {By: entities.ByID, Value: "toolBarCancelItem"},
}

var defaultAliases = map[string]string{
	"abadadosfiscais": "dados fiscais",
	"fiscaldata":      "dados fiscais",
	"btncancelar":     "cancelar",
	"cancel":          "cancelar",
	"cancelbutton":    "cancelar",
}

// Resolver maps logical target names to how they are acted on
type Resolver struct {
	table map[string]entities.Locator
}

// NewResolver merges the configured targets over the built-in table
func NewResolver(configured map[string]entities.Locator) *Resolver {
	r := &Resolver{table: make(map[string]entities.Locator)}
	for name, loc := range defaultTargets {
		r.table[canonical(name)] = loc
	}
	for name, loc := range configured {
		if !loc.IsZero() {
			r.table[canonical(name)] = loc
		}
	}
	return r
}

// Resolve canonicalizes name and looks it up.
// Unknown names fail with *entities.UnresolvedTargetError.
func (r *Resolver) Resolve(name string) (Target, error) {
	key := canonical(name)
	for _, a := range rowAliases {
		if key == canonical(a) {
			return Target{Name: name, Kind: TargetRow}, nil
		}
	}
	for _, a := range editAliases {
		if key == canonical(a) {
			return Target{Name: name, Kind: TargetEdit}, nil
		}
	}
	if name, ok := defaultAliases[key]; ok {
		key = canonical(name)
	}
	loc, ok := r.table[key]
	if !ok || key == "" {
		return Target{}, &entities.UnresolvedTargetError{Target: name}
	}
	return Target{Name: name, Kind: TargetLocator, Locator: loc}, nil
}
