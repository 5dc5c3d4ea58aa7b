package nav

import "godam/models"

// Link is one entry of the top navigation.
type Link struct {
	Label string
	Href  string
}

// TopNavData is shared with page renderers.
type TopNavData struct {
	Username string
	Role     string
	Links    []Link
}

var screens = []struct {
	code string
	link Link
}{
	{"DELIVERY_NOTE_PRINT_VIEW", Link{Label: "Print DN", Href: "/tasker/delivery-notes/print"}},
	{"ORDER_PROGRESS_VIEW", Link{Label: "Order progress", Href: "/tasker/orders"}},
	{"PRINT_RUNS_VIEW", Link{Label: "Print log", Href: "/tasker/admin/print-runs"}},
	{"ADMIN_USERS_VIEW", Link{Label: "Users", Href: "/tasker/admin/users"}},
	{"HELP_VIEW", Link{Label: "Help", Href: "/tasker/help"}},
}

// BuildTopNavData shows only the screens the session may open.
func BuildTopNavData(session models.Session) TopNavData {
	data := TopNavData{Username: session.User.Username, Role: session.User.Role}
	for _, s := range screens {
		if session.ScreenPermissions[s.code] == 1 {
			data.Links = append(data.Links, s.link)
		}
	}
	return data
}
