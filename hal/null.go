package hal

// NullGPIO fails every operation with Unsupported.
type NullGPIO struct{}

func (NullGPIO) Init(int32, int32, bool) (Handle, error) { return -1, Unsupported }
func (NullGPIO) Deinit(Handle) error                     { return Unsupported }
func (NullGPIO) Set(Handle, PinState) error              { return Unsupported }
func (NullGPIO) Get(Handle) (PinState, error)            { return Low, Unsupported }

// NullI2C fails every operation with Unsupported.
type NullI2C struct{}

func (NullI2C) Init(uint32, uint32, int32, int32) (Handle, error) { return -1, Unsupported }
func (NullI2C) Deinit(Handle) error                               { return Unsupported }
func (NullI2C) Write(Handle, uint16, []byte) error                { return Unsupported }
func (NullI2C) Read(Handle, uint16, []byte) error                 { return Unsupported }
func (NullI2C) WriteRead(Handle, uint16, []byte, []byte) error    { return Unsupported }

// NullSPI fails every operation with Unsupported.
type NullSPI struct{}

func (NullSPI) Init(uint32, uint32, int32, int32, int32, int32) (Handle, error) {
	return -1, Unsupported
}
func (NullSPI) Deinit(Handle) error                   { return Unsupported }
func (NullSPI) Read(Handle, []byte) error             { return Unsupported }
func (NullSPI) Write(Handle, []byte) error            { return Unsupported }
func (NullSPI) Transfer(Handle, []byte, []byte) error { return Unsupported }
func (NullSPI) TransferInPlace(Handle, []byte) error  { return Unsupported }

// NullUART fails every operation with Unsupported.
type NullUART struct{}

func (NullUART) Init(uint32, uint32, int32, int32) (Handle, error) { return -1, Unsupported }
func (NullUART) Deinit(Handle) error                               { return Unsupported }
func (NullUART) Write(Handle, uint32, []byte) error                { return Unsupported }
func (NullUART) Read(Handle, uint32, []byte) error                 { return Unsupported }

var (
	_ GPIO = NullGPIO{}
	_ I2C  = NullI2C{}
	_ SPI  = NullSPI{}
	_ UART = NullUART{}
)
