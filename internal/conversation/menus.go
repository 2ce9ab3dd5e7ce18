package conversation

import (
	"fmt"
	"html"
	"strconv"

	"github.com/spolyanaa/MyBarKeeperBot/internal/catalog"
)

var navRow = []Button{{Label: labelBack, Data: "back"}, {Label: labelHome, Data: "home"}}

func roleMenu(text string) Menu {
	return Menu{
		Text: text,
		Rows: [][]Button{
			{{Label: "🍹 Бармен", Data: "role:barman"}},
			{{Label: "🧮 Администратор", Data: "role:admin"}},
		},
	}
}

func withNav(text string, rows ...[]Button) Menu {
	return Menu{Text: text, Rows: append(rows, navRow)}
}

func (e *Engine) categoryRows() [][]Button {
	categories := e.catalog.Categories()
	rows := make([][]Button, 0, len(categories))
	for _, cat := range categories {
		rows = append(rows, []Button{{Label: cat.Title, Data: "cat:" + cat.Key}})
	}
	return rows
}

// productRows lists one page of products, one per row, followed by the
// prev/next controls that apply.
func (e *Engine) productRows(products []string, page int) [][]Button {
	w := Paginate(len(products), page, PageSize)
	rows := make([][]Button, 0, w.End-w.Start+1)
	for _, name := range products[w.Start:w.End] {
		idx, ok := e.catalog.IndexOf(name)
		if !ok {
			continue
		}
		rows = append(rows, []Button{{Label: name, Data: "item:" + strconv.Itoa(idx)}})
	}

	var nav []Button
	if w.HasPrev {
		nav = append(nav, Button{Label: labelPrev, Data: "page:" + strconv.Itoa(w.Page-1)})
	}
	if w.HasNext {
		nav = append(nav, Button{Label: labelNext, Data: "page:" + strconv.Itoa(w.Page+1)})
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}
	return rows
}

// categoryOf returns the category selected in the session's flow.
func (e *Engine) categoryOf(sess *Session) (catalog.Category, bool) {
	var key string
	switch f := sess.Flow.(type) {
	case BarmanFlow:
		key = f.Category
	case ThresholdFlow:
		key = f.Category
	case ReceiveFlow:
		key = f.Category
	}
	if key == "" {
		return catalog.Category{}, false
	}
	return e.catalog.Category(key)
}

// satisfied reports whether the session holds the selections its state
// needs to be shown.
func (e *Engine) satisfied(sess *Session) bool {
	switch sess.State {
	case StateBarmanItem, StateThresholdItem, StateReceiveItem:
		_, ok := e.categoryOf(sess)
		if sess.State == StateThresholdItem {
			f, _ := sess.Flow.(ThresholdFlow)
			return ok && f.Mode != ""
		}
		return ok
	case StateBarmanQuantity, StateBarmanConfirm:
		f, ok := sess.Flow.(BarmanFlow)
		return ok && f.Product != ""
	case StateThresholdCategory:
		f, ok := sess.Flow.(ThresholdFlow)
		return ok && f.Mode != ""
	case StateThresholdValue:
		f, ok := sess.Flow.(ThresholdFlow)
		return ok && f.Mode != "" && f.Product != ""
	case StateReceiveQuantity:
		f, ok := sess.Flow.(ReceiveFlow)
		return ok && f.Product != ""
	case StateNewProductQuantity:
		f, ok := sess.Flow.(NewProductFlow)
		return ok && f.Name != ""
	case StateExpiryDateQty:
		f, ok := sess.Flow.(ExpiryFlow)
		return ok && f.Product != ""
	}
	return true
}

// settle walks up the state graph until the session's selections support
// its state.
func (e *Engine) settle(sess *Session) {
	for !e.satisfied(sess) {
		parent, ok := Parent(sess.State)
		if !ok {
			sess.Reset()
			return
		}
		sess.enter(parent)
	}
}

// menuFor builds the default menu of the session's state.
func (e *Engine) menuFor(sess *Session) Menu {
	e.settle(sess)

	switch sess.State {
	case StateBarmanCategory:
		return withNav(textBarmanCategory, e.categoryRows()...)

	case StateBarmanItem:
		cat, _ := e.categoryOf(sess)
		return withNav(fmt.Sprintf(textBarmanItems, cat.Title), e.productRows(cat.Items, sess.Page)...)

	case StateBarmanQuantity:
		f := sess.Flow.(BarmanFlow)
		m := withNav(fmt.Sprintf(textBarmanQuantity, html.EscapeString(f.Product)))
		m.HTML = true
		return m

	case StateBarmanConfirm:
		f := sess.Flow.(BarmanFlow)
		return withNav(fmt.Sprintf(textBarmanRecorded, f.Product, f.Recorded.String()),
			[]Button{{Label: "✅ Добавить ещё", Data: "b:more"}},
			[]Button{{Label: "❌ Нет, это всё", Data: "b:done"}},
		)

	case StateAdminMenu:
		return withNav(textAdminMenu,
			[]Button{{Label: "📄 Поделиться таблицей", Data: "admin:share"}},
			[]Button{{Label: "📊 Статистика", Data: "admin:stats"}},
			[]Button{{Label: "🧾 Додеп", Data: "admin:dodep"}},
			[]Button{{Label: "📦 Приём товара", Data: "admin:receive"}},
		)

	case StateStatsMenu:
		return withNav(textStatsMenu,
			[]Button{{Label: "За месяц", Data: "stats:30"}},
			[]Button{{Label: "За 4 дня", Data: "stats:4"}},
			[]Button{{Label: "За сутки", Data: "stats:1"}},
		)

	case StateDodepMenu:
		return withNav(textDodepMenu,
			[]Button{{Label: "Нищий закуп", Data: "dodep:poor"}},
			[]Button{{Label: "Люксовый закуп", Data: "dodep:luxe"}},
			[]Button{{Label: "Настроить закуп", Data: "dodep:setup"}},
		)

	case StateThresholdMode:
		return withNav(textThresholdMode,
			[]Button{{Label: "Порог Нищего закупа", Data: "mode:poor"}},
			[]Button{{Label: "Порог Люксового закупа", Data: "mode:luxe"}},
		)

	case StateThresholdCategory:
		f := sess.Flow.(ThresholdFlow)
		return withNav(fmt.Sprintf(textThresholdCategory, f.Mode.Title()), e.categoryRows()...)

	case StateThresholdItem:
		cat, _ := e.categoryOf(sess)
		return withNav(fmt.Sprintf(textThresholdItems, cat.Title), e.productRows(cat.Items, sess.Page)...)

	case StateThresholdValue:
		f := sess.Flow.(ThresholdFlow)
		return withNav(fmt.Sprintf(textThresholdValue, f.Product, f.Mode.Title()))

	case StateReceiveMenu:
		return withNav(textReceiveMenu,
			[]Button{{Label: "Приём по заявке (последний расчёт)", Data: "recv:auto"}},
			[]Button{{Label: "Добавить товар вручную (из меню)", Data: "recv:manual"}},
			[]Button{{Label: "Добавить новый продукт", Data: "recv:new"}},
			[]Button{{Label: "Ввести сроки годности", Data: "recv:expiry"}},
		)

	case StateReceiveCategory:
		return withNav(textReceiveCategory, e.categoryRows()...)

	case StateReceiveItem:
		cat, _ := e.categoryOf(sess)
		return withNav(fmt.Sprintf(textReceiveItems, cat.Title), e.productRows(cat.Items, sess.Page)...)

	case StateReceiveQuantity:
		f := sess.Flow.(ReceiveFlow)
		m := withNav(fmt.Sprintf(textReceiveQuantity, html.EscapeString(f.Product)))
		m.HTML = true
		return m

	case StateNewProductName:
		return withNav(textNewProductName)

	case StateNewProductQuantity:
		f := sess.Flow.(NewProductFlow)
		m := withNav(fmt.Sprintf(textNewProductQuantity, html.EscapeString(f.Name)))
		m.HTML = true
		return m

	case StateExpiryItem:
		return withNav(textExpiryItems, e.productRows(e.catalog.Products(), sess.Page)...)

	case StateExpiryDateQty:
		f := sess.Flow.(ExpiryFlow)
		m := withNav(fmt.Sprintf(textExpiryPrompt, html.EscapeString(f.Product)))
		m.HTML = true
		return m
	}

	return roleMenu(textRoleSelect)
}
