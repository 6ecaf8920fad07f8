package model

// Pins is the AS3935 wiring sent to /api/as3935/pins/save.
type Pins struct {
	SPIHost int `json:"spi_host"`
	SCLK    int `json:"sclk"`
	MOSI    int `json:"mosi"`
	MISO    int `json:"miso"`
	CS      int `json:"cs"`
	IRQ     int `json:"irq"`
}

// DefaultPins matches the reference ESP32-C3 board wiring.
var DefaultPins = Pins{
	SPIHost: 1,
	SCLK:    14,
	MOSI:    13,
	MISO:    12,
	CS:      15,
	IRQ:     10,
}

// SaveResult is the body the device answers save requests with, e.g.
// {"status":"ok","saved":true} or {"status":"error","msg":"content_too_large"}.
type SaveResult struct {
	Status string `json:"status"`
	Saved  bool   `json:"saved,omitempty"`
	Msg    string `json:"msg,omitempty"`
	OK     *bool  `json:"ok,omitempty"`
}

// Failed reports whether the device rejected the request in its body while
// still answering 200.
func (r SaveResult) Failed() bool {
	if r.OK != nil && !*r.OK {
		return true
	}
	return r.Status == "error"
}
