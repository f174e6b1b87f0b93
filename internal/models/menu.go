package models

// MenuEntry is one item in the admin navigation.
type MenuEntry struct {
	Route string `json:"route"`
	Icon  string `json:"icon"`
	Name  string `json:"name"`
}

// AdminHeader collects plugin entries contributed to the admin navigation.
type AdminHeader struct {
	Plugins []MenuEntry `json:"plugins"`
}
