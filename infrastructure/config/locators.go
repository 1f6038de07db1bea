package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"totvs_automation/domain/entities"
)

//go:embed locators.yaml
var defaultLocators []byte

// LoginLocators are the CSS selectors of the login form
type LoginLocators struct {
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Submit     string `yaml:"submit"`
	AfterLogin string `yaml:"after_login"`
}

// DomainLocators are the CSS selectors of the optional tenant screen
type DomainLocators struct {
	Container string `yaml:"container"`
	Combo     string `yaml:"combo"`
	Option    string `yaml:"opcao"`
	Enter     string `yaml:"entrar"`
	Confirmed string `yaml:"confirmado"`
}

type MenuLocators struct {
	ContainerIDs []string `yaml:"container_ids"`
	ToggleIDs    []string `yaml:"toggle_ids"`
	OverlayIDs   []string `yaml:"overlay_ids"`
}

type ProductScreenLocators struct {
	Hrefs  []string
	Checks []entities.Locator
}

type GridLocators struct {
	ContainerCSS []string `yaml:"container_css"`
	HeaderCSS    []string `yaml:"header_css"`
	RowCSS       []string `yaml:"row_css"`
}

type PaginationLocators struct {
	Next   entities.Locator
	Anchor entities.Locator
}

// EditFormLocators are the element ids of the product edit form fields
type EditFormLocators struct {
	CodeID       string `yaml:"code_id"`
	NameID       string `yaml:"name_id"`
	TaxRateID    string `yaml:"tax_rate_id"`
	HiddenFlagID string `yaml:"hidden_flag_id"`
}

// ProductLocators is the cadastro_produtos section
type ProductLocators struct {
	Menu          MenuLocators
	ProductScreen ProductScreenLocators
	Grid          GridLocators
	Pagination    PaginationLocators
	Targets       map[string]entities.Locator
	EditForm      EditFormLocators
}

// Locators is the whole locator table, read once per run
type Locators struct {
	Login    LoginLocators
	Domain   DomainLocators
	Products ProductLocators
}

// stringList accepts either a scalar or a sequence
type stringList []string

func (s *stringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = stringList{node.Value}
		return nil
	case yaml.SequenceNode:
		var out []string
		if err := node.Decode(&out); err != nil {
			return err
		}
		*s = out
		return nil
	default:
		return fmt.Errorf("line %d: expected string or list of strings", node.Line)
	}
}

type selectorEntry struct {
	By    string     `yaml:"by"`
	Value stringList `yaml:"value"`
}

func (e selectorEntry) locator() entities.Locator {
	loc := entities.Locator{By: parseBy(e.By)}
	if len(e.Value) > 0 {
		loc.Value = e.Value[0]
		loc.Candidates = append([]string(nil), e.Value[1:]...)
	}
	return loc
}

type rawFile struct {
	Login    LoginLocators  `yaml:"login"`
	Domain   DomainLocators `yaml:"dominio"`
	Products struct {
		Menu          MenuLocators `yaml:"menu"`
		ProductScreen struct {
			Hrefs  []string        `yaml:"hrefs"`
			Checks []selectorEntry `yaml:"checks"`
		} `yaml:"produto_servico"`
		Grid       GridLocators `yaml:"grid"`
		Pagination struct {
			Next   selectorEntry `yaml:"next"`
			Anchor selectorEntry `yaml:"anchor"`
		} `yaml:"pagination"`
		Targets  map[string]selectorEntry `yaml:"targets"`
		EditForm EditFormLocators         `yaml:"edit_form"`
	} `yaml:"cadastro_produtos"`
}

// LoadLocators reads the embedded locator table and overlays path on top of it
// when path is not empty. Required keys are checked before returning.
func LoadLocators(path string) (*Locators, error) {
	var raw rawFile
	if err := yaml.Unmarshal(defaultLocators, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse embedded locators: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read locators file: %w", err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse locators file %s: %w", path, err)
		}
	}

	locs := raw.build()
	if err := locs.Validate(); err != nil {
		return nil, err
	}
	return locs, nil
}

func (r rawFile) build() *Locators {
	p := r.Products
	out := &Locators{
		Login:  r.Login,
		Domain: r.Domain,
		Products: ProductLocators{
			Menu: p.Menu,
			ProductScreen: ProductScreenLocators{
				Hrefs: p.ProductScreen.Hrefs,
			},
			Grid: p.Grid,
			Pagination: PaginationLocators{
				Next:   p.Pagination.Next.locator(),
				Anchor: p.Pagination.Anchor.locator(),
			},
			Targets:  make(map[string]entities.Locator, len(p.Targets)),
			EditForm: p.EditForm,
		},
	}
	for _, c := range p.ProductScreen.Checks {
		if loc := c.locator(); !loc.IsZero() {
			out.Products.ProductScreen.Checks = append(out.Products.ProductScreen.Checks, loc)
		}
	}
	for name, entry := range p.Targets {
		out.Products.Targets[name] = entry.locator()
	}
	return out
}

// Validate reports the first required key that is empty
func (l *Locators) Validate() error {
	required := []struct {
		section, key string
		empty        bool
	}{
		{"login", "user", l.Login.User == ""},
		{"login", "password", l.Login.Password == ""},
		{"login", "submit", l.Login.Submit == ""},
		{"cadastro_produtos.menu", "container_ids", len(l.Products.Menu.ContainerIDs) == 0},
		{"cadastro_produtos.menu", "toggle_ids", len(l.Products.Menu.ToggleIDs) == 0},
		{"cadastro_produtos.produto_servico", "hrefs", len(l.Products.ProductScreen.Hrefs) == 0},
		{"cadastro_produtos.produto_servico", "checks", len(l.Products.ProductScreen.Checks) == 0},
		{"cadastro_produtos.grid", "container_css", len(l.Products.Grid.ContainerCSS) == 0},
		{"cadastro_produtos.grid", "row_css", len(l.Products.Grid.RowCSS) == 0},
		{"cadastro_produtos.pagination", "next", l.Products.Pagination.Next.IsZero()},
		{"cadastro_produtos.pagination", "anchor", l.Products.Pagination.Anchor.IsZero()},
		{"cadastro_produtos.edit_form", "code_id", l.Products.EditForm.CodeID == ""},
		{"cadastro_produtos.edit_form", "name_id", l.Products.EditForm.NameID == ""},
		{"cadastro_produtos.edit_form", "tax_rate_id", l.Products.EditForm.TaxRateID == ""},
		{"cadastro_produtos.edit_form", "hidden_flag_id", l.Products.EditForm.HiddenFlagID == ""},
	}
	for _, r := range required {
		if r.empty {
			return &entities.ConfigMissingError{Section: r.section, Key: r.key}
		}
	}
	return nil
}

func parseBy(s string) entities.By {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "xpath":
		return entities.ByXPath
	case "id":
		return entities.ByID
	case "name":
		return entities.ByName
	case "tag":
		return entities.ByTag
	case "class":
		return entities.ByClass
	default:
		return entities.ByCSS
	}
}
