package navigation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"totvs_automation/application/waits"
	"totvs_automation/domain/entities"
	"totvs_automation/domain/interfaces"
)

// OpenMainMenu makes sure the side menu is open, clicking the configured
// toggles up to the configured number of attempts
func (n *Navigator) OpenMainMenu(ctx context.Context) error {
	menu := n.locs.Products.Menu
	if n.menuOpen(ctx) {
		n.waitOverlays(ctx, n.overlayTO)
		return nil
	}

	var lastErr error
	for attempt := 1; attempt <= n.attempts; attempt++ {
		n.logger.Debugf("opening main menu, attempt %d/%d", attempt, n.attempts)
		for _, id := range menu.ToggleIDs {
			toggle, err := n.driver.FindElement(ctx, entities.ByID, id)
			if err != nil {
				lastErr = err
				continue
			}
			if err := n.clickWithFallback(ctx, toggle); err != nil {
				lastErr = err
				continue
			}
			err = waits.Until(ctx, n.menuWait, waits.ElementInterval, "menu container", func(ctx context.Context) (bool, error) {
				return n.firstVisible(ctx, menu.ContainerIDs) != nil, nil
			})
			if err != nil {
				lastErr = err
			}
		}
		n.waitOverlays(ctx, 5*time.Second)
		if n.menuOpen(ctx) {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	if lastErr == nil {
		lastErr = errors.New("menu container never became visible")
	}
	return n.fail(ctx, "menu", fmt.Errorf("menu did not open after %d attempts: %w", n.attempts, lastErr))
}

// GoToProductScreen opens the Produto/Serviço screen through the menu
func (n *Navigator) GoToProductScreen(ctx context.Context) error {
	if err := n.OpenMainMenu(ctx); err != nil {
		return err
	}

	var lastErr error
	for _, href := range n.locs.Products.ProductScreen.Hrefs {
		if !n.menuOpen(ctx) {
			if err := n.OpenMainMenu(ctx); err != nil {
				return err
			}
		}
		if err := n.clickMenuHref(ctx, href); err != nil {
			lastErr = err
			continue
		}
		n.waitOverlays(ctx, n.overlayTO)
		if _, err := waits.ForAnyElement(ctx, n.driver, n.locs.Products.ProductScreen.Checks, waits.Visible, n.timeout); err != nil {
			lastErr = err
			continue
		}
		n.logger.Info("product screen open")
		return nil
	}
	if lastErr == nil {
		lastErr = errors.New("no product screen href configured")
	}
	return n.fail(ctx, "produto_servico", lastErr)
}

// OnProductScreen reports whether any product screen check is visible right now
func (n *Navigator) OnProductScreen(ctx context.Context) bool {
	_, err := waits.ForAnyElement(ctx, n.driver, n.locs.Products.ProductScreen.Checks, waits.Visible, 0)
	return err == nil
}

func (n *Navigator) clickMenuHref(ctx context.Context, href string) error {
	sel := fmt.Sprintf("a[href='%s']", href)
	candidates := []entities.Locator{}
	for _, id := range n.locs.Products.Menu.ContainerIDs {
		candidates = append(candidates, entities.Locator{By: entities.ByCSS, Value: "#" + id + " " + sel})
	}
	candidates = append(candidates,
		entities.Locator{By: entities.ByCSS, Value: "ul#novoMenu " + sel},
		entities.Locator{By: entities.ByCSS, Value: "nav " + sel},
		entities.Locator{By: entities.ByCSS, Value: sel},
	)
	link, err := waits.ForAnyElement(ctx, n.driver, candidates, waits.Clickable, n.timeout)
	if err != nil {
		return fmt.Errorf("menu item %s: %w", href, err)
	}
	return n.clickWithFallback(ctx, link)
}

// menuOpen is true when a menu container is visible and shows a link
func (n *Navigator) menuOpen(ctx context.Context) bool {
	cont := n.firstVisible(ctx, n.locs.Products.Menu.ContainerIDs)
	if cont == nil {
		return false
	}
	links, err := cont.FindElements(entities.ByCSS, "a[href]")
	if err != nil {
		return true
	}
	for _, l := range links {
		if shown, err := l.IsDisplayed(); err == nil && shown {
			return true
		}
	}
	return false
}

func (n *Navigator) firstVisible(ctx context.Context, ids []string) interfaces.Element {
	for _, id := range ids {
		el, err := n.driver.FindElement(ctx, entities.ByID, id)
		if err != nil {
			continue
		}
		if shown, err := el.IsDisplayed(); err == nil && shown {
			return el
		}
	}
	return nil
}

// waitOverlays waits for the first configured loading overlay that goes away
func (n *Navigator) waitOverlays(ctx context.Context, timeout time.Duration) {
	for _, id := range n.locs.Products.Menu.OverlayIDs {
		err := waits.Until(ctx, timeout, waits.ElementInterval, "overlay "+id, func(ctx context.Context) (bool, error) {
			el, err := n.driver.FindElement(ctx, entities.ByID, id)
			if err != nil {
				return true, nil
			}
			shown, err := el.IsDisplayed()
			return err == nil && !shown, nil
		})
		if err == nil {
			return
		}
	}
}
