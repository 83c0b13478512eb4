package oled

// Configure runs the SSD1306 power-up sequence. The panel is left off until the last command,
// so a failed call leaves it in an undefined state; retry the whole call.
func (fb *Framebuffer) Configure() error {
	comPins := byte(0x12)
	switch {
	case fb.width == 128 && fb.height == 32,
		fb.width == 96 && fb.height == 16:
		comPins = 0x02
	}

	if err := fb.commands("configure",
		ssd1xxxSetDisplayOff,
		ssd1xxxSetMemoryMode, memoryModeVertical,
		ssd1xxxSetStartLine|0x00,
		ssd1xxxSetSegmentRemap,
		ssd1xxxSetMultiplexRatio, byte(fb.height-1),
		ssd1xxxSetComScanDec,
		ssd1xxxSetDisplayOffset, 0x00,
		ssd1xxxSetComPins, comPins,
		ssd1xxxSetDisplayClockDiv, 0x80,
		ssd1xxxSetPrecharge, 0xF1,
		ssd1xxxSetVCOMDeselect, 0x30,
		ssd1xxxSetContrast, 0xFF,
		ssd1xxxSetDisplayAllOnResume,
		ssd1xxxSetNormalDisplay,
		ssd1xxxSetChargePump, chargePumpEnable,
		ssd1xxxSetDisplayOn,
	); err != nil {
		return err
	}

	fb.halted = false
	return nil
}

// Present writes the whole framebuffer to the panel.
func (fb *Framebuffer) Present() error {
	if fb.halted {
		return ErrHalted
	}
	if err := fb.commands("present",
		ssd1xxxSetColumnAddr, 0, byte(fb.width-1),
		ssd1xxxSetPageAddr, 0, byte(fb.pages-1),
	); err != nil {
		return err
	}
	if err := fb.dev.Tx(fb.buf, nil); err != nil {
		return transportError("present", err)
	}
	return nil
}

// Show toggles the display on or off.
func (fb *Framebuffer) Show(show bool) error {
	if fb.halted {
		return ErrHalted
	}
	if show {
		return fb.commands("show", ssd1xxxSetDisplayOn)
	}
	return fb.commands("show", ssd1xxxSetDisplayOff)
}

// SetContrast adjusts the contrast level.
func (fb *Framebuffer) SetContrast(level uint8) error {
	if fb.halted {
		return ErrHalted
	}
	return fb.commands("contrast", ssd1xxxSetContrast, level)
}

// Invert swaps on and off pixels on the panel without touching the framebuffer.
func (fb *Framebuffer) Invert(invert bool) error {
	if fb.halted {
		return ErrHalted
	}
	if invert {
		return fb.commands("invert", ssd1xxxSetInvertDisplay)
	}
	return fb.commands("invert", ssd1xxxSetNormalDisplay)
}

// Close turns the display off. The bus is owned by the caller and stays open.
func (fb *Framebuffer) Close() error {
	if fb.halted {
		return nil
	}
	if err := fb.commands("close", ssd1xxxSetDisplayOff); err != nil {
		return err
	}
	fb.halted = true
	return nil
}

// commands sends every byte as its own command frame.
func (fb *Framebuffer) commands(op string, commands ...byte) error {
	for _, command := range commands {
		if err := fb.dev.Tx([]byte{controlCommand, command}, nil); err != nil {
			return transportError(op, err)
		}
	}
	return nil
}
