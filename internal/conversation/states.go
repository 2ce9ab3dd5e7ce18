package conversation

// State is a node of the conversation graph.
type State int

const (
	StateRoleSelect State = iota

	StateBarmanCategory
	StateBarmanItem
	StateBarmanQuantity
	StateBarmanConfirm

	StateAdminMenu
	StateStatsMenu
	StateDodepMenu

	StateThresholdMode
	StateThresholdCategory
	StateThresholdItem
	StateThresholdValue

	StateReceiveMenu
	StateReceiveCategory
	StateReceiveItem
	StateReceiveQuantity
	StateNewProductName
	StateNewProductQuantity
	StateExpiryItem
	StateExpiryDateQty
)

var stateNames = map[State]string{
	StateRoleSelect:         "role_select",
	StateBarmanCategory:     "barman_category",
	StateBarmanItem:         "barman_item",
	StateBarmanQuantity:     "barman_quantity",
	StateBarmanConfirm:      "barman_confirm",
	StateAdminMenu:          "admin_menu",
	StateStatsMenu:          "stats_menu",
	StateDodepMenu:          "dodep_menu",
	StateThresholdMode:      "threshold_mode",
	StateThresholdCategory:  "threshold_category",
	StateThresholdItem:      "threshold_item",
	StateThresholdValue:     "threshold_value",
	StateReceiveMenu:        "receive_menu",
	StateReceiveCategory:    "receive_category",
	StateReceiveItem:        "receive_item",
	StateReceiveQuantity:    "receive_quantity",
	StateNewProductName:     "new_product_name",
	StateNewProductQuantity: "new_product_quantity",
	StateExpiryItem:         "expiry_item",
	StateExpiryDateQty:      "expiry_date_qty",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// parents is the canonical Back target of every non-root state.
var parents = map[State]State{
	StateBarmanCategory: StateRoleSelect,
	StateBarmanItem:     StateBarmanCategory,
	StateBarmanQuantity: StateBarmanItem,
	StateBarmanConfirm:  StateBarmanCategory,

	StateAdminMenu:   StateRoleSelect,
	StateStatsMenu:   StateAdminMenu,
	StateDodepMenu:   StateAdminMenu,
	StateReceiveMenu: StateAdminMenu,

	StateThresholdMode:     StateDodepMenu,
	StateThresholdCategory: StateThresholdMode,
	StateThresholdItem:     StateThresholdCategory,
	StateThresholdValue:    StateThresholdItem,

	StateReceiveCategory:    StateReceiveMenu,
	StateReceiveItem:        StateReceiveCategory,
	StateReceiveQuantity:    StateReceiveItem,
	StateNewProductName:     StateReceiveMenu,
	StateNewProductQuantity: StateNewProductName,
	StateExpiryItem:         StateReceiveMenu,
	StateExpiryDateQty:      StateExpiryItem,
}

// Parent returns the state Back leads to. The root has none.
func Parent(s State) (State, bool) {
	p, ok := parents[s]
	return p, ok
}

// States lists every state in declaration order.
func States() []State {
	out := make([]State, 0, len(stateNames))
	for s := StateRoleSelect; s <= StateExpiryDateQty; s++ {
		out = append(out, s)
	}
	return out
}

// acceptsText reports whether the state waits for a typed reply.
func (s State) acceptsText() bool {
	switch s {
	case StateBarmanQuantity, StateThresholdValue, StateReceiveQuantity,
		StateNewProductName, StateNewProductQuantity, StateExpiryDateQty:
		return true
	}
	return false
}
