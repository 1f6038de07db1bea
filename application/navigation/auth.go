package navigation

import (
	"context"
	"fmt"
	"strings"

	"totvs_automation/application/waits"
	"totvs_automation/domain/entities"
	"totvs_automation/domain/interfaces"
)

// Login opens url, submits the credentials and waits for either the home
// page or the domain selection screen
func (n *Navigator) Login(ctx context.Context, url, user, password string) error {
	loc := n.locs.Login
	n.logger.Infof("opening %s", url)
	if err := n.driver.Get(ctx, url); err != nil {
		return n.fail(ctx, "login", err)
	}

	userEl, err := waits.ForElement(ctx, n.driver, entities.ByCSS, loc.User, waits.Present, n.timeout)
	if err != nil {
		return n.fail(ctx, "login", err)
	}
	passEl, err := n.driver.FindElement(ctx, entities.ByCSS, loc.Password)
	if err != nil {
		return n.fail(ctx, "login", err)
	}
	if err := fill(userEl, user); err != nil {
		return n.fail(ctx, "login", err)
	}
	if err := fill(passEl, password); err != nil {
		return n.fail(ctx, "login", err)
	}

	submit, err := n.driver.FindElement(ctx, entities.ByCSS, loc.Submit)
	if err != nil {
		return n.fail(ctx, "login", err)
	}
	if err := submit.Click(); err != nil {
		return n.fail(ctx, "login", err)
	}

	var after []entities.Locator
	if loc.AfterLogin != "" {
		after = append(after, entities.Locator{By: entities.ByCSS, Value: loc.AfterLogin})
	}
	if n.locs.Domain.Container != "" {
		after = append(after, entities.Locator{By: entities.ByCSS, Value: n.locs.Domain.Container})
	}
	if len(after) == 0 {
		return &entities.ConfigMissingError{Section: "login", Key: "after_login"}
	}
	if _, err := waits.ForAnyElement(ctx, n.driver, after, waits.Present, n.timeout); err != nil {
		return n.fail(ctx, "login", err)
	}
	n.logger.Info("logged in")
	return nil
}

// SelectDomain picks the tenant on the optional domain screen: the first
// option containing preferred, else the first option. Without the screen it
// does nothing.
func (n *Navigator) SelectDomain(ctx context.Context, preferred string) error {
	loc := n.locs.Domain
	if loc.Container == "" {
		return nil
	}
	if _, err := waits.ForElement(ctx, n.driver, entities.ByCSS, loc.Container, waits.Present, n.probe); err != nil {
		n.logger.Info("no domain selection screen, continuing")
		return nil
	}

	if loc.Combo != "" {
		combo, err := waits.ForElement(ctx, n.driver, entities.ByCSS, loc.Combo, waits.Clickable, n.timeout)
		if err != nil {
			return n.fail(ctx, "dominio", err)
		}
		if err := combo.Click(); err != nil {
			return n.fail(ctx, "dominio", err)
		}
	}

	option, err := n.domainOption(ctx, preferred)
	if err != nil {
		return n.fail(ctx, "dominio", err)
	}
	if option != nil {
		if err := option.Click(); err != nil {
			return n.fail(ctx, "dominio", err)
		}
	}

	if loc.Enter != "" {
		enter, err := waits.ForElement(ctx, n.driver, entities.ByCSS, loc.Enter, waits.Clickable, n.timeout)
		if err != nil {
			return n.fail(ctx, "dominio", err)
		}
		if err := enter.Click(); err != nil {
			return n.fail(ctx, "dominio", err)
		}
	}
	if loc.Confirmed != "" {
		if _, err := waits.ForElement(ctx, n.driver, entities.ByCSS, loc.Confirmed, waits.Present, n.timeout); err != nil {
			return n.fail(ctx, "dominio", err)
		}
	}
	n.logger.Info("domain selected")
	return nil
}

func (n *Navigator) domainOption(ctx context.Context, preferred string) (interfaces.Element, error) {
	sel := n.locs.Domain.Option
	if sel == "" {
		return nil, nil
	}
	if preferred == "" {
		return waits.ForElement(ctx, n.driver, entities.ByCSS, sel, waits.Clickable, n.timeout)
	}

	options, err := n.driver.FindElements(ctx, entities.ByCSS, sel)
	if err != nil {
		return nil, err
	}
	want := strings.ToLower(preferred)
	for _, op := range options {
		if text, err := op.Text(); err == nil && strings.Contains(strings.ToLower(text), want) {
			return op, nil
		}
	}
	if len(options) == 0 {
		return nil, fmt.Errorf("no domain option matches %q", sel)
	}
	n.logger.Warnf("domain %q not offered, using the first one", preferred)
	return options[0], nil
}

func fill(el interfaces.Element, value string) error {
	if err := el.Clear(); err != nil {
		return err
	}
	return el.SendKeys(value)
}
