package navigation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"totvs_automation/domain/entities"
	"totvs_automation/domain/interfaces"
	"totvs_automation/infrastructure/browser/browsertest"
	"totvs_automation/infrastructure/config"
)

type fakeShots struct {
	steps []string
}

func (f *fakeShots) Screenshot(ctx context.Context, d interfaces.Driver, step string) (string, error) {
	f.steps = append(f.steps, step)
	return "artifacts/" + step + ".png", nil
}

func newNavigator(t *testing.T) (*Navigator, *browsertest.Driver, *fakeShots) {
	t.Helper()
	locs, err := config.LoadLocators("")
	require.NoError(t, err)
	logger, _ := test.NewNullLogger()
	d := browsertest.NewDriver()
	shots := &fakeShots{}
	n := NewNavigator(d, locs, shots, 10*time.Millisecond, logger)
	n.probe = 10 * time.Millisecond
	n.overlayTO = 10 * time.Millisecond
	n.attempts = 2
	n.menuWait = 10 * time.Millisecond
	return n, d, shots
}

func loginPage(n *Navigator, d *browsertest.Driver) (user, pass, submit *browsertest.Element) {
	loc := n.locs.Login
	user = browsertest.NewElement("input", "", nil)
	pass = browsertest.NewElement("input", "", nil)
	submit = browsertest.NewElement("button", "Entrar", nil)
	d.Put(entities.ByCSS, loc.User, user)
	d.Put(entities.ByCSS, loc.Password, pass)
	d.Put(entities.ByCSS, loc.Submit, submit)
	return user, pass, submit
}

func TestLogin(t *testing.T) {
	n, d, _ := newNavigator(t)
	user, pass, submit := loginPage(n, d)
	submit.OnClick = func() {
		d.Put(entities.ByCSS, n.locs.Login.AfterLogin, browsertest.NewElement("ul", "", nil))
	}

	require.NoError(t, n.Login(context.Background(), "https://erp.example.com", "ana", "s3cr3t"))
	require.Equal(t, []string{"https://erp.example.com"}, d.Visited)
	require.Equal(t, []string{"ana"}, user.Keys)
	require.Equal(t, []string{"s3cr3t"}, pass.Keys)
	require.Equal(t, 1, submit.Clicks)
}

func TestLoginAcceptsDomainScreen(t *testing.T) {
	n, d, _ := newNavigator(t)
	_, _, submit := loginPage(n, d)
	submit.OnClick = func() {
		d.Put(entities.ByCSS, n.locs.Domain.Container, browsertest.NewElement("div", "", nil))
	}
	require.NoError(t, n.Login(context.Background(), "https://erp.example.com", "ana", "x"))
}

func TestLoginTimeoutCarriesScreenshot(t *testing.T) {
	n, d, shots := newNavigator(t)
	loginPage(n, d)

	err := n.Login(context.Background(), "https://erp.example.com", "ana", "x")
	var navErr *entities.NavigationError
	require.True(t, errors.As(err, &navErr))
	require.Equal(t, "login", navErr.Step)
	require.Equal(t, "artifacts/erro_login.png", navErr.Screenshot)
	require.ErrorIs(t, err, entities.ErrTimeout)
	require.Equal(t, []string{"erro_login"}, shots.steps)
}

func TestSelectDomain(t *testing.T) {
	t.Run("screen absent", func(t *testing.T) {
		n, _, shots := newNavigator(t)
		require.NoError(t, n.SelectDomain(context.Background(), "Matriz"))
		require.Empty(t, shots.steps)
	})

	t.Run("preferred option", func(t *testing.T) {
		n, d, _ := newNavigator(t)
		loc := n.locs.Domain
		d.Put(entities.ByCSS, loc.Container, browsertest.NewElement("div", "", nil))
		combo := browsertest.NewElement("div", "", nil)
		d.Put(entities.ByCSS, loc.Combo, combo)
		filial := browsertest.NewElement("li", "LOJA FILIAL", nil)
		matriz := browsertest.NewElement("li", "Loja Matriz Centro", nil)
		d.Put(entities.ByCSS, loc.Option, filial, matriz)
		enter := browsertest.NewElement("button", "Entrar", nil)
		enter.OnClick = func() { d.Put(entities.ByCSS, loc.Confirmed, browsertest.NewElement("ul", "", nil)) }
		d.Put(entities.ByCSS, loc.Enter, enter)

		require.NoError(t, n.SelectDomain(context.Background(), "matriz"))
		require.Equal(t, 1, combo.Clicks)
		require.Equal(t, 1, matriz.Clicks)
		require.Zero(t, filial.Clicks)
		require.Equal(t, 1, enter.Clicks)
	})

	t.Run("never confirmed", func(t *testing.T) {
		n, d, _ := newNavigator(t)
		loc := n.locs.Domain
		d.Put(entities.ByCSS, loc.Container, browsertest.NewElement("div", "", nil))
		d.Put(entities.ByCSS, loc.Combo, browsertest.NewElement("div", "", nil))
		d.Put(entities.ByCSS, loc.Option, browsertest.NewElement("li", "Única", nil))
		d.Put(entities.ByCSS, loc.Enter, browsertest.NewElement("button", "", nil))

		err := n.SelectDomain(context.Background(), "")
		var navErr *entities.NavigationError
		require.True(t, errors.As(err, &navErr))
		require.Equal(t, "dominio", navErr.Step)
	})
}

func openMenu(d *browsertest.Driver) *browsertest.Element {
	menu := browsertest.NewElement("div", "", nil)
	menu.PutChild(entities.ByCSS, "a[href]", browsertest.NewElement("a", "Cadastros", nil))
	d.Put(entities.ByID, "menus", menu)
	return menu
}

func TestOpenMainMenu(t *testing.T) {
	t.Run("already open", func(t *testing.T) {
		n, d, _ := newNavigator(t)
		openMenu(d)
		require.NoError(t, n.OpenMainMenu(context.Background()))
	})

	t.Run("toggle opens it", func(t *testing.T) {
		n, d, _ := newNavigator(t)
		toggle := browsertest.NewElement("a", "", nil)
		toggle.OnClick = func() { openMenu(d) }
		d.Put(entities.ByID, "newMenu", toggle)

		require.NoError(t, n.OpenMainMenu(context.Background()))
		require.Equal(t, 1, toggle.Clicks)
	})

	t.Run("gives up after the attempts", func(t *testing.T) {
		n, d, shots := newNavigator(t)
		toggle := browsertest.NewElement("a", "", nil)
		d.Put(entities.ByID, "newMenu", toggle)

		err := n.OpenMainMenu(context.Background())
		var navErr *entities.NavigationError
		require.True(t, errors.As(err, &navErr))
		require.Equal(t, "menu", navErr.Step)
		require.Equal(t, 2, toggle.Clicks)
		require.Equal(t, []string{"erro_menu"}, shots.steps)
	})
}

func TestGoToProductScreen(t *testing.T) {
	n, d, _ := newNavigator(t)
	openMenu(d)
	require.False(t, n.OnProductScreen(context.Background()))

	link := browsertest.NewElement("a", "Produto/Serviço", nil)
	link.OnClick = func() {
		d.Put(entities.ByXPath, "//h1[contains(.,'Produto')]", browsertest.NewElement("h1", "Produto", nil))
	}
	d.Put(entities.ByCSS, "#menus a[href='/Cadastros/ProdutoServico']", link)

	require.NoError(t, n.GoToProductScreen(context.Background()))
	require.Equal(t, 1, link.Clicks)
	require.True(t, n.OnProductScreen(context.Background()))
}
