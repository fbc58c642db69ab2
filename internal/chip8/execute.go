package chip8

// skipNext advances the program counter past the next instruction.
func (vm *VM) skipNext() {
	vm.regs.PC += 2
}

// execute runs a single decoded instruction against the VM state. The
// program counter has already been advanced past the instruction, so jump
// and call targets are absolute and the value pushed by a call is the
// address of the following instruction.
//
// Operations that write a VF side effect (carry, borrow, shift bit,
// collision) store the primary result first and the flag second, so the
// flag wins when VF itself is the destination register.
func (vm *VM) execute(in Instruction) error {
	r := &vm.regs

	switch in.Op {
	case OpCls:
		vm.display.Clear()

	case OpRet:
		address, err := r.Pop()
		if err != nil {
			return err
		}
		r.PC = address

	case OpJp:
		r.PC = in.NNN

	case OpCall:
		if err := r.Push(r.PC); err != nil {
			return err
		}
		r.PC = in.NNN

	case OpSeNN:
		if r.V[in.X] == in.NN {
			vm.skipNext()
		}

	case OpSneNN:
		if r.V[in.X] != in.NN {
			vm.skipNext()
		}

	case OpSeXY:
		if r.V[in.X] == r.V[in.Y] {
			vm.skipNext()
		}

	case OpLdNN:
		r.V[in.X] = in.NN

	case OpAddNN:
		r.V[in.X] += in.NN

	case OpLdXY:
		r.V[in.X] = r.V[in.Y]

	case OpOr:
		r.V[in.X] |= r.V[in.Y]

	case OpAnd:
		r.V[in.X] &= r.V[in.Y]

	case OpXor:
		r.V[in.X] ^= r.V[in.Y]

	case OpAddXY:
		sum := uint16(r.V[in.X]) + uint16(r.V[in.Y])
		r.V[in.X] = uint8(sum)
		r.V[flagRegister] = uint8(sum >> 8)

	case OpSub:
		noBorrow := r.V[in.X] >= r.V[in.Y]
		r.V[in.X] -= r.V[in.Y]
		r.V[flagRegister] = boolToFlag(noBorrow)

	case OpShr:
		bit := r.V[in.X] & 0x01
		r.V[in.X] >>= 1
		r.V[flagRegister] = bit

	case OpSubn:
		noBorrow := r.V[in.Y] >= r.V[in.X]
		r.V[in.X] = r.V[in.Y] - r.V[in.X]
		r.V[flagRegister] = boolToFlag(noBorrow)

	case OpShl:
		bit := r.V[in.X] >> 7
		r.V[in.X] <<= 1
		r.V[flagRegister] = bit

	case OpSneXY:
		if r.V[in.X] != r.V[in.Y] {
			vm.skipNext()
		}

	case OpLdI:
		r.I = in.NNN

	case OpJpV0:
		r.PC = in.NNN + uint16(r.V[0])

	case OpRnd:
		r.V[in.X] = uint8(vm.rng.Intn(256)) & in.NN

	case OpDrw:
		return vm.drawSprite(in)

	case OpSkp:
		if vm.keys.Pressed(r.V[in.X]) {
			vm.skipNext()
		}

	case OpSknp:
		if !vm.keys.Pressed(r.V[in.X]) {
			vm.skipNext()
		}

	case OpLdDT:
		r.V[in.X] = vm.timers.Delay()

	case OpLdKey:
		// Rewind the program counter when no key is down so the
		// instruction re-executes next cycle. The core never blocks.
		key, ok := vm.keys.FirstPressed()
		if !ok {
			r.PC -= 2
			return nil
		}
		r.V[in.X] = key

	case OpSetDT:
		vm.timers.SetDelay(r.V[in.X])

	case OpSetST:
		vm.timers.SetSound(r.V[in.X])

	case OpAddI:
		r.I += uint16(r.V[in.X])

	case OpLdFont:
		r.I = fontStart + fontSpriteSize*uint16(r.V[in.X]&0x0F)

	case OpBCD:
		value := r.V[in.X]
		digits := [3]byte{value / 100, value / 10 % 10, value % 10}
		for i, digit := range digits {
			if err := vm.mem.WriteByte(r.I+uint16(i), digit); err != nil {
				return err
			}
		}

	case OpStore:
		for i := uint16(0); i <= uint16(in.X); i++ {
			if err := vm.mem.WriteByte(r.I+i, r.V[i]); err != nil {
				return err
			}
		}
		r.I += uint16(in.X) + 1

	case OpLoad:
		for i := uint16(0); i <= uint16(in.X); i++ {
			value, err := vm.mem.ReadByte(r.I + i)
			if err != nil {
				return err
			}
			r.V[i] = value
		}
		r.I += uint16(in.X) + 1
	}

	return nil
}

// drawSprite reads the N sprite rows at I from memory and XORs them onto the
// display at (VX, VY), storing the collision flag in VF.
func (vm *VM) drawSprite(in Instruction) error {
	sprite := make([]byte, in.N)
	for row := range sprite {
		value, err := vm.mem.ReadByte(vm.regs.I + uint16(row))
		if err != nil {
			return err
		}
		sprite[row] = value
	}

	collision := vm.display.DrawSprite(vm.regs.V[in.X], vm.regs.V[in.Y], sprite)
	vm.regs.V[flagRegister] = boolToFlag(collision)
	return nil
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
