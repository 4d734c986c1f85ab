package classfile

// PoolBuilder assembles a ConstantPool entry by entry, reusing Utf8, Class
// and NameAndType entries it has already added. It is used to synthesize
// classes without going through a class file.
type PoolBuilder struct {
	entries []Constant
	utf8    map[string]uint16
	classes map[string]uint16
	nats    map[[2]uint16]uint16
}

func NewPoolBuilder() *PoolBuilder {
	return &PoolBuilder{
		utf8:    make(map[string]uint16),
		classes: make(map[string]uint16),
		nats:    make(map[[2]uint16]uint16),
	}
}

// Add appends c and returns its index. Long and Double entries are followed
// by their placeholder slot.
func (b *PoolBuilder) Add(c Constant) uint16 {
	b.entries = append(b.entries, c)
	index := uint16(len(b.entries))
	if t := c.Tag(); t == TagLong || t == TagDouble {
		b.entries = append(b.entries, &ConstantPlaceholder{})
	}
	return index
}

func (b *PoolBuilder) Utf8(s string) uint16 {
	if i, ok := b.utf8[s]; ok {
		return i
	}
	i := b.Add(&ConstantUtf8{Value: s})
	b.utf8[s] = i
	return i
}

// Class adds a Class entry for an internal name such as java/lang/String.
func (b *PoolBuilder) Class(name string) uint16 {
	if i, ok := b.classes[name]; ok {
		return i
	}
	i := b.Add(&ConstantClass{NameIndex: b.Utf8(name)})
	b.classes[name] = i
	return i
}

func (b *PoolBuilder) String(s string) uint16 {
	return b.Add(&ConstantString{StringIndex: b.Utf8(s)})
}

func (b *PoolBuilder) Integer(v int32) uint16 { return b.Add(&ConstantInteger{Value: v}) }

func (b *PoolBuilder) Float(v float32) uint16 { return b.Add(&ConstantFloat{Value: v}) }

func (b *PoolBuilder) Long(v int64) uint16 { return b.Add(&ConstantLong{Value: v}) }

func (b *PoolBuilder) Double(v float64) uint16 { return b.Add(&ConstantDouble{Value: v}) }

func (b *PoolBuilder) NameAndType(name, desc string) uint16 {
	key := [2]uint16{b.Utf8(name), b.Utf8(desc)}
	if i, ok := b.nats[key]; ok {
		return i
	}
	i := b.Add(&ConstantNameAndType{NameIndex: key[0], DescriptorIndex: key[1]})
	b.nats[key] = i
	return i
}

func (b *PoolBuilder) FieldRef(class, name, desc string) uint16 {
	return b.Add(&ConstantFieldref{ClassIndex: b.Class(class), NameAndTypeIndex: b.NameAndType(name, desc)})
}

func (b *PoolBuilder) MethodRef(class, name, desc string) uint16 {
	return b.Add(&ConstantMethodref{ClassIndex: b.Class(class), NameAndTypeIndex: b.NameAndType(name, desc)})
}

func (b *PoolBuilder) InterfaceMethodRef(class, name, desc string) uint16 {
	return b.Add(&ConstantInterfaceMethodref{ClassIndex: b.Class(class), NameAndTypeIndex: b.NameAndType(name, desc)})
}

func (b *PoolBuilder) MethodType(desc string) uint16 {
	return b.Add(&ConstantMethodType{DescriptorIndex: b.Utf8(desc)})
}

func (b *PoolBuilder) InvokeDynamic(bootstrap uint16, name, desc string) uint16 {
	return b.Add(&ConstantInvokeDynamic{BootstrapMethodAttrIndex: bootstrap, NameAndTypeIndex: b.NameAndType(name, desc)})
}

// Build returns the pool. The builder may keep adding entries afterwards;
// the returned pool does not see them.
func (b *PoolBuilder) Build() *ConstantPool {
	return NewConstantPool(b.entries)
}
