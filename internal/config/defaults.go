package config

// Factory settings written by the firmware when no config file exists.
// WiFi passwords live here because the device has no other secret storage.
func defaultDocument() map[string]interface{} {
	return map[string]interface{}{
		"pins": map[string]interface{}{
			"PIN_SDA":    5,
			"PIN_SCL":    6,
			"PIN_LEFT":   3,
			"PIN_RIGHT":  4,
			"PIN_FIRE":   0,
			"PIN_LASER":  9,
			"PIN_UP":     10,
			"PIN_DOWN":   7,
			"PIN_BUZZER": 1,
		},
		"wifi": map[string]interface{}{
			"mode":     "AP",
			"known":    []interface{}{},
			"selected": 0,
			"ap_credentials": map[string]interface{}{
				"ssid":     "SmartThermo",
				"password": "12345678",
				"ip":       "192.168.4.1",
			},
		},
		"preferences": map[string]interface{}{
			"laser":   true,
			"bignum":  false,
			"reading": "OnShoot",
			"refresh": 500,
		},
		"thermostat": map[string]interface{}{
			"active": false,
			"target": 50,
			"p":      1.0,
			"i":      0.0,
			"d":      0.0,
		},
		"tapo": map[string]interface{}{
			"enabled":  false,
			"ip":       "192.168.137.242",
			"email":    "",
			"password": "",
		},
		"calibration": map[string]interface{}{
			"enabled":     true,
			"point1_raw":  36.3,
			"point1_real": 60.0,
			"point2_raw":  58.2,
			"point2_real": 100.0,
		},
	}
}

// DefaultDocument returns a fresh copy of the factory configuration.
func DefaultDocument() map[string]interface{} {
	return defaultDocument()
}
