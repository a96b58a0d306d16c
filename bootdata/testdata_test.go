package bootdata

import "strings"

// crlfJoin joins lines with CRLF terminators, as the firmware writes them.
func crlfJoin(lines ...string) []byte {
	if len(lines) == 0 {
		return nil
	}
	return []byte(strings.Join(lines, "\r\n") + "\r\n")
}

var (
	sampleOrder = crlfJoin(
		"/pci@i0cf8/usb@10/usb-*@1",
		"/pci@i0cf8/usb@10/usb-*@2",
		"/pci@i0cf8/sdhci@14,7",
		"/pci@i0cf8/*@11/drive@0/disk@0",
		"pxen1",
		"usben1",
		"uartc0",
		"watchdog012c",
	)
	sampleMap = crlfJoin(
		"a USB",
		"a USB",
		"b SD card",
		"c mSATA",
	)
)

func sampleConfig() *Config {
	c := New()
	c.Records = []Record{
		{Name: "USB", Devices: []string{"/pci@i0cf8/usb@10/usb-*@1", "/pci@i0cf8/usb@10/usb-*@2"}},
		{Name: "SD card", Devices: []string{"/pci@i0cf8/sdhci@14,7"}},
		{Name: "mSATA", Devices: []string{"/pci@i0cf8/*@11/drive@0/disk@0"}},
	}
	c.Set(OptPXE, 1)
	c.Set(OptUSB, 1)
	c.Set(OptWatchdog, 0x12c)
	return c
}

func recordNames(c *Config) []string {
	out := make([]string, len(c.Records))
	for i, r := range c.Records {
		out[i] = r.Name
	}
	return out
}

func lettered(names ...string) *Config {
	c := New()
	for _, n := range names {
		c.Records = append(c.Records, Record{Name: n, Devices: []string{"/" + strings.ToLower(n)}})
	}
	return c
}
