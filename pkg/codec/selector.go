package codec

// DivisorsX3 lists the frequency step sizes, in thirds of a Hz, selectable by
// a resolution index. Tripling keeps 6.25kHz and 8.33kHz steps integral.
var DivisorsX3 = []uint32{15000, 18750, 25000, 25000, 27000}

// FallbackDivisor is the index used when no divisor fits or the stored index
// is out of range.
const FallbackDivisor = 2

// Divisor returns the step in Hz for a resolution index.
func Divisor(index uint32) uint32 {
	if index >= uint32(len(DivisorsX3)) {
		index = FallbackDivisor
	}
	return DivisorsX3[index] / 3
}

// FindDivisor returns the first of the leading limit divisors that divides
// hz exactly. ok is false, with the fallback index, when none does.
func FindDivisor(hz uint32, limit int) (index uint32, ok bool) {
	if limit > len(DivisorsX3) {
		limit = len(DivisorsX3)
	}
	x3 := uint64(hz) * 3
	for i := 0; i < limit; i++ {
		if x3%uint64(DivisorsX3[i]) == 0 {
			return uint32(i), true
		}
	}
	return FallbackDivisor, false
}

// hzValue multiplies a stored count by a divisor in thirds.
func hzValue(count, divX3 uint32) uint32 {
	return uint32(uint64(count) * uint64(divX3) / 3)
}

// ScaledFrequency is a frequency whose step size is picked by a separate
// resolution selector field.
type ScaledFrequency struct {
	Value    Uint
	Selector Field
	// Limit caps the number of divisors the selector can address.
	Limit int
}

// Hz decodes the frequency.
func (f ScaledFrequency) Hz(b []byte) uint32 {
	idx := f.Selector.Get(b)
	if idx >= uint32(f.limit()) {
		idx = f.fallback()
	}
	return hzValue(f.Value.Get(b), DivisorsX3[idx])
}

// SetHz picks the coarsest exact resolution and stores hz. It reports false
// when hz is not a multiple of any selectable step; the value is then stored
// rounded down to the fallback step. A count too wide for Value is rejected
// and nothing is written.
func (f ScaledFrequency) SetHz(b []byte, hz uint32) bool {
	idx, ok := FindDivisor(hz, f.limit())
	if !ok {
		idx = f.fallback()
	}
	count := uint64(hz) * 3 / uint64(DivisorsX3[idx])
	if count > uint64(f.Value.Max()) {
		return false
	}
	f.Selector.Set(b, idx)
	f.Value.Set(b, uint32(count))
	return ok
}

func (f ScaledFrequency) limit() int {
	l := int(f.Selector.Max()) + 1
	if f.Limit > 0 && f.Limit < l {
		l = f.Limit
	}
	if l > len(DivisorsX3) {
		l = len(DivisorsX3)
	}
	return l
}

func (f ScaledFrequency) fallback() uint32 {
	if l := uint32(f.limit()); FallbackDivisor >= l {
		return 0
	}
	return FallbackDivisor
}

// FrequencySet18 is the five byte receive/offset pair used by the newer
// D-STAR handhelds: three bits of rx resolution, three bits of tx
// resolution, an 18 bit receive count and a 16 bit offset count.
type FrequencySet18 struct {
	Offset int
}

func (f FrequencySet18) rxSel() Bits { return Bits{f.Offset, 5, 3} }
func (f FrequencySet18) txSel() Bits { return Bits{f.Offset, 2, 3} }
func (f FrequencySet18) rx() Uint    { return Uint{f.Offset, 18, BigEndian} }
func (f FrequencySet18) tx() Uint    { return BE16(f.Offset + 3) }

// End is the offset just past the pair.
func (f FrequencySet18) End() int {
	return f.tx().End()
}

// Rx returns the receive frequency in Hz.
func (f FrequencySet18) Rx(b []byte) uint32 {
	return ScaledFrequency{Value: f.rx(), Selector: f.rxSel()}.Hz(b)
}

// SetRx stores the receive frequency.
func (f FrequencySet18) SetRx(b []byte, hz uint32) bool {
	return ScaledFrequency{Value: f.rx(), Selector: f.rxSel()}.SetHz(b, hz)
}

// TxOffset returns the duplex offset in Hz.
func (f FrequencySet18) TxOffset(b []byte) uint32 {
	return ScaledFrequency{Value: f.tx(), Selector: f.txSel()}.Hz(b)
}

// SetTxOffset stores the duplex offset.
func (f FrequencySet18) SetTxOffset(b []byte, hz uint32) bool {
	return ScaledFrequency{Value: f.tx(), Selector: f.txSel()}.SetHz(b, hz)
}
