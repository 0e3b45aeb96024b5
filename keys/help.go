package keys

import "sort"

// HelpCategory organizes commands by function
type HelpCategory string

const (
	HelpCategoryLeads      HelpCategory = "Leads"
	HelpCategoryFilters    HelpCategory = "Filtering"
	HelpCategoryNavigation HelpCategory = "Navigation"
	HelpCategoryDetail     HelpCategory = "Lead details"
	HelpCategoryOther      HelpCategory = "Other"
	HelpCategoryUncategory HelpCategory = "Uncategorized" // For keys without categories
)

// categoryOrder is the order categories appear in on the help screen.
var categoryOrder = map[HelpCategory]int{
	HelpCategoryLeads:      1,
	HelpCategoryFilters:    2,
	HelpCategoryNavigation: 3,
	HelpCategoryDetail:     4,
	HelpCategoryOther:      5,
	HelpCategoryUncategory: 6,
}

// KeyHelpInfo adds extended help information to key bindings
type KeyHelpInfo struct {
	Description string       // Extended description for help text
	Category    HelpCategory // Category for organizing in help screens
}

// KeyHelpMap maps KeyNames to their help information
var KeyHelpMap = map[KeyName]KeyHelpInfo{
	KeyEnter:     {Description: "Open the selected lead's details", Category: HelpCategoryLeads},
	KeyConvert:   {Description: "Convert the selected lead into an opportunity", Category: HelpCategoryLeads},
	KeyCopyEmail: {Description: "Copy the selected lead's email to the clipboard", Category: HelpCategoryLeads},
	KeyLoadMore:  {Description: "Load the next page of leads", Category: HelpCategoryLeads},

	KeySearch:       {Description: "Search leads by name or company", Category: HelpCategoryFilters},
	KeyStatusNext:   {Description: "Cycle the status filter", Category: HelpCategoryFilters},
	KeyStatusPrev:   {Description: "Cycle the status filter backwards", Category: HelpCategoryFilters},
	KeySort:         {Description: "Toggle sorting by score (high/low)", Category: HelpCategoryFilters},
	KeyResetFilters: {Description: "Reset search, status and sort", Category: HelpCategoryFilters},

	KeyUp:       {Description: "Move up (Vim k supported)", Category: HelpCategoryNavigation},
	KeyDown:     {Description: "Move down (Vim j supported)", Category: HelpCategoryNavigation},
	KeyPageUp:   {Description: "Page up", Category: HelpCategoryNavigation},
	KeyPageDown: {Description: "Page down", Category: HelpCategoryNavigation},
	KeyTab:      {Description: "Switch between leads and opportunities", Category: HelpCategoryNavigation},

	KeyEdit:      {Description: "Edit email, status and amount", Category: HelpCategoryDetail},
	KeySave:      {Description: "Save changes to the lead", Category: HelpCategoryDetail},
	KeyNextField: {Description: "Move to the next field", Category: HelpCategoryDetail},
	KeyPrevField: {Description: "Move to the previous field", Category: HelpCategoryDetail},

	KeyEsc:  {Description: "Cancel or close the current panel", Category: HelpCategoryOther},
	KeyHelp: {Description: "Show this help screen", Category: HelpCategoryOther},
	KeyQuit: {Description: "Quit the application", Category: HelpCategoryOther},
}

// GetKeyHelp returns the help information for a key
func GetKeyHelp(keyName KeyName) KeyHelpInfo {
	info, exists := KeyHelpMap[keyName]
	if !exists {
		return KeyHelpInfo{
			Description: "No description",
			Category:    HelpCategoryUncategory,
		}
	}
	return info
}

// GetKeysInCategory returns all key bindings in a given category, in
// declaration order.
func GetKeysInCategory(category HelpCategory) []KeyName {
	var keys []KeyName
	for k, info := range KeyHelpMap {
		if info.Category == category {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// GetAllCategories returns all categories that have at least one key, in
// display order.
func GetAllCategories() []HelpCategory {
	categoryMap := make(map[HelpCategory]bool)
	for _, info := range KeyHelpMap {
		categoryMap[info.Category] = true
	}

	categories := make([]HelpCategory, 0, len(categoryMap))
	for category := range categoryMap {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		return categoryOrder[categories[i]] < categoryOrder[categories[j]]
	})
	return categories
}
