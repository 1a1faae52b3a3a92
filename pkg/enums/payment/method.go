package payment

import "strings"

type Method struct {
	Name string
}

func (m Method) Code() string {
	return m.Name
}

func (m Method) Label() string {
	switch m {
	case Methods.UPI:
		return "UPI"
	case Methods.Cash:
		return "Cash"
	default:
		return m.Name
	}
}

type Enum struct {
	Cash Method
	UPI  Method
}

var Methods = Enum{
	Cash: Method{Name: "cash"},
	UPI:  Method{Name: "upi"},
}

var All = []Method{
	Methods.Cash,
	Methods.UPI,
}

// Default is preselected for new orders.
var Default = Methods.Cash

// ByName returns the method for a given name, or nil if not found.
func ByName(name string) *Method {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, m := range All {
		if m.Name == name {
			return &m
		}
	}
	return nil
}
