package translator

// Prolog constants: the four stack slots a host's calling trampoline
// supplies, addressed relative to the frame pointer the prolog
// establishes. The offsets (0x18, 0x1c, 0x20, 0x28) are fixed by the
// six pushes in prologLines below (6*4 = 0x18 bytes between esp at
// entry and the frame pointer).
var prologConstants = map[string]string{
	"$first":  "[ebp+18h]",
	"$second": "[ebp+1ch]",
	"$this":   "[ebp+20h]",
	"$return": "[ebp+28h]",
}

// prologLines is the fixed prolog body: save eax and the caller's
// flags, then the callee-saved registers, then establish the frame
// pointer. Both this and epilogLines are fixed literal instruction
// text, installed once per translation rather than synthesized per
// call site.
var prologLines = []string{
	"push eax",
	"pushf",
	"push ebx",
	"push esi",
	"push edi",
	"push ebp",
	"mov ebp, esp",
}

// epilogLines is what the literal "asmret" line expands to: the mirror
// image of prologLines, terminated by ret.
var epilogLines = []string{
	"pop ebp",
	"pop edi",
	"pop esi",
	"pop ebx",
	"popf",
	"pop eax",
	"ret",
}

// InstallPrologConstants pre-installs $first/$second/$this/$return into
// constants, for callers that request a prolog.
func InstallPrologConstants(constants map[string]string) {
	for name, value := range prologConstants {
		constants[name] = value
	}
}
