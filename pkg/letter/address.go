package letter

// MaxAddressLines is the number of address lines a letter can carry.
const MaxAddressLines = 7

// Address is a postal address of up to seven lines. Nil lines render empty.
type Address struct {
	Line1 *string `json:"address_line_1,omitempty"`
	Line2 *string `json:"address_line_2,omitempty"`
	Line3 *string `json:"address_line_3,omitempty"`
	Line4 *string `json:"address_line_4,omitempty"`
	Line5 *string `json:"address_line_5,omitempty"`
	Line6 *string `json:"address_line_6,omitempty"`
	Line7 *string `json:"address_line_7,omitempty"`
}

// NewAddress builds an address from the given lines, in order.
// Lines beyond MaxAddressLines are dropped.
func NewAddress(lines ...string) Address {
	var a Address
	ptrs := a.fields()
	for i, line := range lines {
		if i >= MaxAddressLines {
			break
		}
		*ptrs[i] = &line
	}
	return a
}

// Lines returns all seven lines; nil lines become "".
func (a Address) Lines() [MaxAddressLines]string {
	var out [MaxAddressLines]string
	for i, p := range a.fields() {
		if *p != nil {
			out[i] = **p
		}
	}
	return out
}

func (a *Address) fields() [MaxAddressLines]**string {
	return [MaxAddressLines]**string{&a.Line1, &a.Line2, &a.Line3, &a.Line4, &a.Line5, &a.Line6, &a.Line7}
}
