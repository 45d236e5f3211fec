package chip8

import (
	"math/rand"
	"time"
)

/// State of the virtual machine between steps.
///
type State int

const (
	/// Running executes the next instruction on each step.
	///
	Running State = iota

	/// AwaitingKey re-executes LD Vx, K until a key is pressed.
	///
	AwaitingKey
)

func (s State) String() string {
	if s == AwaitingKey {
		return "awaiting key"
	}

	return "running"
}

/// CHIP_8 virtual machine. It owns its memory, display, stack and
/// keypad and is the only thing that changes them. It never blocks
/// and does no I/O: the host calls Step at the instruction rate and
/// Tick at 60 Hz.
///
type CHIP_8 struct {
	/// rom is a pristine copy of the loaded program that Reset
	/// reloads memory from.
	///
	rom []byte

	memory  *Memory
	display Display
	stack   Stack
	keypad  Keypad

	// V0-VF
	v Registers

	// address register
	i uint16

	// program counter, starts at 0x200
	pc uint16

	// delay and sound timers, counted down at 60 Hz
	dt, st byte

	quirks Quirks
	rand   *rand.Rand

	/// cycles is the number of instructions successfully executed
	/// since the last reset.
	///
	cycles int64
}

/// New returns a virtual machine with an empty program loaded. The
/// random number generator is seeded from the clock; use Seed for
/// repeatable runs.
///
func New(quirks Quirks) *CHIP_8 {
	vm := &CHIP_8{
		quirks: quirks,
		rand:   rand.New(rand.NewSource(time.Now().UTC().UnixNano())),
	}

	vm.Reset()

	return vm
}

/// LoadROM replaces the program and resets the machine. On error the
/// machine is unchanged.
///
func (vm *CHIP_8) LoadROM(program []byte) error {
	if err := NewMemory().LoadROM(program); err != nil {
		return err
	}

	vm.rom = append([]byte(nil), program...)
	vm.Reset()

	return nil
}

/// Reset the virtual machine back to the state right after the
/// current program was loaded.
///
func (vm *CHIP_8) Reset() {
	vm.memory = NewMemory()

	// the rom was already checked when loaded
	_ = vm.memory.LoadROM(vm.rom)

	vm.display.Clear()
	vm.stack.Reset()
	vm.keypad = Keypad{}

	// reset program counter and address register
	vm.pc = ProgramStart
	vm.i = 0

	// reset virtual registers and timers
	vm.v = Registers{}
	vm.dt = 0
	vm.st = 0

	vm.cycles = 0
}

/// Step executes a single instruction with the given keys held
/// down. If the instruction fails, the error is returned and the
/// machine is left as it was before the step.
///
func (vm *CHIP_8) Step(keys [16]bool) error {
	vm.keypad.SetKeys(keys)

	pc := vm.pc

	inst, err := vm.fetch()
	if err == nil {
		err = vm.execute(inst)
	}

	if err != nil {
		vm.pc = pc
		return err
	}

	vm.cycles++

	return nil
}

/// Tick counts both timers down by one, stopping at zero. It should
/// be called 60 times a second.
///
func (vm *CHIP_8) Tick() {
	if vm.dt > 0 {
		vm.dt--
	}

	if vm.st > 0 {
		vm.st--
	}
}

// Seed the random number generator used by RND.
func (vm *CHIP_8) Seed(seed int64) {
	vm.rand = rand.New(rand.NewSource(seed))
}

// fetch the instruction at PC and advance past it
func (vm *CHIP_8) fetch() (Instruction, error) {
	word, err := vm.memory.Word(uint(vm.pc))
	if err != nil {
		return Instruction{}, err
	}

	// advance the program counter
	vm.pc += 2

	return Decode(word)
}

// PC returns the program counter.
func (vm *CHIP_8) PC() uint16 {
	return vm.pc
}

// Index returns the address register I.
func (vm *CHIP_8) Index() uint16 {
	return vm.i
}

// V returns register Vx.
func (vm *CHIP_8) V(x byte) byte {
	return vm.v.Get(x)
}

// Registers returns a copy of V0-VF.
func (vm *CHIP_8) Registers() Registers {
	return vm.v
}

// DelayTimer returns the delay timer.
func (vm *CHIP_8) DelayTimer() byte {
	return vm.dt
}

/// SoundTimer returns the sound timer. The host should sound a tone
/// while it is non-zero.
///
func (vm *CHIP_8) SoundTimer() byte {
	return vm.st
}

// Frame returns a copy of the display.
func (vm *CHIP_8) Frame() Frame {
	return vm.display.Frame()
}

// Stack returns the pushed return addresses, oldest first.
func (vm *CHIP_8) Stack() []uint16 {
	return vm.stack.Frames()
}

// ReadMemory returns a copy of n bytes of memory at addr.
func (vm *CHIP_8) ReadMemory(addr uint, n int) ([]byte, error) {
	return vm.memory.Read(addr, n)
}

// State is AwaitingKey while blocked on LD Vx, K.
func (vm *CHIP_8) State() State {
	if vm.keypad.Waiting() {
		return AwaitingKey
	}

	return Running
}

// Quirks returns the compatibility settings.
func (vm *CHIP_8) Quirks() Quirks {
	return vm.quirks
}

// Cycles returns the number of instructions executed since reset.
func (vm *CHIP_8) Cycles() int64 {
	return vm.cycles
}
