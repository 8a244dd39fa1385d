// Package escpos compiles structured receipts into the ESC/POS byte
// protocol spoken by thermal receipt printers.
package escpos

// ESC/POS control sequences: ESC-prefixed for formatting and alignment,
// GS-prefixed for character size, cut and raster.
var (
	cmdInit        = []byte{0x1B, 0x40}             // ESC @ - reset printer state
	cmdAlignLeft   = []byte{0x1B, 0x61, 0x00}       // ESC a 0
	cmdAlignCenter = []byte{0x1B, 0x61, 0x01}       // ESC a 1
	cmdBoldOn      = []byte{0x1B, 0x45, 0x01}       // ESC E 1
	cmdBoldOff     = []byte{0x1B, 0x45, 0x00}       // ESC E 0
	cmdSizeDouble  = []byte{0x1D, 0x21, 0x11}       // GS ! - double width+height
	cmdSizeNormal  = []byte{0x1D, 0x21, 0x00}       // GS !
	cmdFeed3       = []byte{0x1B, 0x64, 0x03}       // ESC d 3 - feed 3 lines
	cmdCut         = []byte{0x1D, 0x56, 0x41, 0x00} // GS V A 0 - partial cut
)

// DrawerKick is the pulse sent through the printer's cash-drawer port.
// Dispatched on its own for drawer-only requests.
var DrawerKick = []byte{0x1B, 0x70, 0x00, 0x19} // ESC p 0 25
