package bmff

// SampleFlags is the 32-bit sample-flags bit-field defined by ISO/IEC
// 14496-12 §8.8.3.1, used in tfhd's default_sample_flags, trun's
// first_sample_flags and per-sample flags.
//
// Layout (MSB-first):
//
//	bits [26..27] is_leading
//	bits [24..25] sample_depends_on
//	bits [22..23] sample_is_depended_on
//	bits [20..21] sample_has_redundancy
//	bits [17..19] sample_padding_value
//	bit  [16]     sample_is_non_sync
//	bits [0..15]  sample_degradation_priority
type SampleFlags uint32

func NewSampleFlags(isLeading, dependsOn, isDependedOn, hasRedundancy uint8, paddingValue uint8, isNonSync bool, degradationPriority uint16) SampleFlags {
	var v uint32
	v |= uint32(isLeading&0x3) << 26
	v |= uint32(dependsOn&0x3) << 24
	v |= uint32(isDependedOn&0x3) << 22
	v |= uint32(hasRedundancy&0x3) << 20
	v |= uint32(paddingValue&0x7) << 17
	if isNonSync {
		v |= 1 << 16
	}
	v |= uint32(degradationPriority)
	return SampleFlags(v)
}

func (f SampleFlags) Bits() uint32 { return uint32(f) }

func (f SampleFlags) IsLeading() uint8           { return uint8(f>>26) & 0x3 }
func (f SampleFlags) SampleDependsOn() uint8      { return uint8(f>>24) & 0x3 }
func (f SampleFlags) SampleIsDependedOn() uint8   { return uint8(f>>22) & 0x3 }
func (f SampleFlags) SampleHasRedundancy() uint8  { return uint8(f>>20) & 0x3 }
func (f SampleFlags) SamplePaddingValue() uint8   { return uint8(f>>17) & 0x7 }
func (f SampleFlags) SampleIsNonSync() bool       { return f&(1<<16) != 0 }
func (f SampleFlags) SampleDegradationPriority() uint16 { return uint16(f) }

// IsSync reports whether the sample can be decoded without reference
// to others (a key frame): the negation of sample_is_non_sync.
func (f SampleFlags) IsSync() bool { return !f.SampleIsNonSync() }

// IsIndependent reports sample_depends_on == 2 (does not depend on others).
func (f SampleFlags) IsIndependent() bool { return f.SampleDependsOn() == 2 }

// IsDependedUpon reports sample_is_depended_on == 1 (other samples
// depend on this one — i.e. it must not be discarded).
func (f SampleFlags) IsDependedUpon() bool { return f.SampleIsDependedOn() == 1 }
