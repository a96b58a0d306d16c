package bootdata

import "fmt"

// Kind is the value domain of an option.
type Kind int

const (
	// Boolean options hold 0 (off) or 1 (on).
	Boolean Kind = iota
	// Toggle options choose between two labels; 1 selects the first.
	Toggle
	// Hex4 options hold a value in [0, 0xFFFF], written as 4 hex digits.
	Hex4
)

func (k Kind) String() string {
	switch k {
	case Boolean:
		return "boolean"
	case Toggle:
		return "toggle"
	case Hex4:
		return "hex4"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MaxHex4 is the largest value a Hex4 option accepts.
const MaxHex4 = 0xFFFF

// OptionID identifies an entry of the option table.
type OptionID int

const (
	OptPXE OptionID = iota
	OptUSB
	OptSerialConsole
	OptCOM2Redirect
	OptUARTC
	OptUARTD
	OptEHCI
	OptCoreBoost
	OptMPCIe2Clock
	OptSD3Mode
	OptIOMMU
	OptPCIePM
	OptPCIeReverse
	OptLPT
	OptWatchdog

	// NumOptions is the size of the option table.
	NumOptions int = iota
)

// OptionDef is one row of the option table.
type OptionDef struct {
	ID          OptionID
	Keyword     string
	Description string
	Shortcut    rune
	Kind        Kind
	// Labels name the two states of a Toggle option, first label = value 1.
	Labels [2]string
}

var optionTable = [NumOptions]OptionDef{
	{OptPXE, "pxen", "Network/PXE boot", 'n', Boolean, [2]string{}},
	{OptUSB, "usben", "USB boot", 'u', Boolean, [2]string{}},
	{OptSerialConsole, "scon", "Serial console", 't', Boolean, [2]string{}},
	{OptCOM2Redirect, "com2en", "Redirect console output to COM2", 'k', Boolean, [2]string{}},
	{OptUARTC, "uartc", "UART C / GPIO[0..7]", 'o', Toggle, [2]string{"UART", "GPIO"}},
	{OptUARTD, "uartd", "UART D / GPIO[10..17]", 'p', Toggle, [2]string{"UART", "GPIO"}},
	{OptEHCI, "ehcien", "EHCI0 controller", 'h', Boolean, [2]string{}},
	{OptCoreBoost, "boosten", "Core Performance Boost", 'l', Boolean, [2]string{}},
	{OptMPCIe2Clock, "mpcie2_clk", "Force mPCIe2 slot CLK (GPP3 PCIe)", 'm', Boolean, [2]string{}},
	{OptSD3Mode, "sd3mode", "SD 3.0 mode", 's', Boolean, [2]string{}},
	{OptIOMMU, "iommu", "IOMMU", 'i', Boolean, [2]string{}},
	{OptPCIePM, "pciepm", "PCIe power management features", 'v', Boolean, [2]string{}},
	{OptPCIeReverse, "pciereverse", "Reverse order of PCI addresses", 'r', Boolean, [2]string{}},
	{OptLPT, "lpt", "LPT controller", 'j', Boolean, [2]string{}},
	{OptWatchdog, "watchdog", "Watchdog timeout in seconds (0 = disabled)", 'w', Hex4, [2]string{}},
}

// Options returns a copy of the option table in table order.
func Options() []OptionDef {
	out := make([]OptionDef, NumOptions)
	copy(out, optionTable[:])
	return out
}

// Def returns the table row for id. It panics on an id outside the table.
func Def(id OptionID) OptionDef {
	return optionTable[id]
}

// Valid reports whether id names a table row.
func (id OptionID) Valid() bool { return id >= 0 && int(id) < NumOptions }

func (id OptionID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("OptionID(%d)", int(id))
	}
	return optionTable[id].Keyword
}

// LookupKeyword finds the option with the given keyword.
func LookupKeyword(keyword string) (OptionID, bool) {
	for _, d := range optionTable {
		if d.Keyword == keyword {
			return d.ID, true
		}
	}
	return -1, false
}

// LookupShortcut finds the option bound to the shortcut key r.
func LookupShortcut(r rune) (OptionID, bool) {
	for _, d := range optionTable {
		if d.Shortcut == r {
			return d.ID, true
		}
	}
	return -1, false
}

// matchOptionLine returns the option whose keyword is the longest prefix of
// line, preferring the earliest table row on ties.
func matchOptionLine(line string) (OptionDef, string, bool) {
	best := -1
	for i, d := range optionTable {
		if len(line) < len(d.Keyword) || line[:len(d.Keyword)] != d.Keyword {
			continue
		}
		if best < 0 || len(d.Keyword) > len(optionTable[best].Keyword) {
			best = i
		}
	}
	if best < 0 {
		return OptionDef{}, "", false
	}
	d := optionTable[best]
	return d, line[len(d.Keyword):], true
}
