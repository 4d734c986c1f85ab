package classfile

// ---------------------------------------------------------------------------
// Access flag names, as reported alongside decompiled output
// ---------------------------------------------------------------------------

type flagName struct {
	flag AccessFlags
	name string
}

var classFlagNames = []flagName{
	{AccPublic, "public"},
	{AccFinal, "final"},
	{AccAbstract, "abstract"},
	{AccSynthetic, "synthetic"},
	{AccAnnotation, "annotation"},
	{AccEnum, "enum"},
}

var fieldFlagNames = []flagName{
	{AccPublic, "public"},
	{AccPrivate, "private"},
	{AccProtected, "protected"},
	{AccStatic, "static"},
	{AccFinal, "final"},
	{AccVolatile, "volatile"},
	{AccTransient, "transient"},
	{AccSynthetic, "synthetic"},
	{AccEnum, "enum"},
}

var methodFlagNames = []flagName{
	{AccPublic, "public"},
	{AccPrivate, "private"},
	{AccProtected, "protected"},
	{AccStatic, "static"},
	{AccFinal, "final"},
	{AccSynchronized, "synchronized"},
	{AccBridge, "bridge"},
	{AccVarargs, "varargs"},
	{AccNative, "native"},
	{AccAbstract, "abstract"},
	{AccStrict, "strictfp"},
	{AccSynthetic, "synthetic"},
}

func names(flags AccessFlags, table []flagName) []string {
	result := make([]string, 0)
	for _, f := range table {
		if flags.Is(f.flag) {
			result = append(result, f.name)
		}
	}
	return result
}

// ClassFlagNames lists the class modifiers set in flags, followed by the
// kind of type it declares. ACC_SUPER is not a source-level modifier and is
// skipped.
func ClassFlagNames(flags AccessFlags) []string {
	result := names(flags, classFlagNames)
	if flags.Is(AccModule) && !flags.Is(AccSuper) {
		result = append(result, "module")
	}
	switch {
	case flags.Is(AccAnnotation), flags.Is(AccEnum):
	case flags.Is(AccInterface):
		result = append(result, "interface")
	default:
		result = append(result, "class")
	}
	return result
}

func FieldFlagNames(flags AccessFlags) []string { return names(flags, fieldFlagNames) }

func MethodFlagNames(flags AccessFlags) []string { return names(flags, methodFlagNames) }
