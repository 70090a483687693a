package vm

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	gnerror "github.com/msto63/galnotes/foundation/core/error"
)

var _ = Describe("Instruction text form", func() {
	DescribeTable("should round trip",
		func(line string, want Instruction) {
			inst, err := ParseInstruction(line)
			Expect(err).NotTo(HaveOccurred())
			Expect(inst).To(Equal(want))
			Expect(inst.String()).To(Equal(line))
		},
		Entry("no operands", "PUSH", Instruction{Op: OpPUSH}),
		Entry("register", "CLR $ar", Inst(OpCLR, Reg(RegAR))),
		Entry("variable to register", "MOV %glob $nr", Inst(OpMOV, Var("glob"), Reg(RegNR))),
		Entry("literal", "MOV 3910 $ar", Inst(OpMOV, Lit(3910), Reg(RegAR))),
		Entry("decimal literal", "MOV 195.5 $ar", Inst(OpMOV, Lit(195.5), Reg(RegAR))),
		Entry("text", "LOAD 'glob prok is $rr'", Inst(OpLOAD, Text("glob prok is $rr"))),
	)

	DescribeTable("should reject",
		func(line string, code gnerror.Code) {
			_, err := ParseInstruction(line)
			Expect(gnerror.HasCode(err, code)).To(BeTrue(), "%v", err)
		},
		Entry("unknown opcode", "JMP $ar", gnerror.CodeUnknownOpcode),
		Entry("empty line", "   ", gnerror.CodeUnknownOpcode),
		Entry("unknown register", "CLR $zz", gnerror.CodeUnknownRegister),
		Entry("bare word", "MOV glob $ar", gnerror.CodeOperandClass),
		Entry("unquoted text", "LOAD hello", gnerror.CodeOperandClass),
	)

	It("should know every opcode by name", func() {
		for op := OpCLR; op < opCount; op++ {
			parsed, err := ParseOpcode(op.String())
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed).To(Equal(op))
			Expect(op.Valid()).To(BeTrue())
		}
		Expect(Opcode(42).Valid()).To(BeFalse())
	})
})

var _ = Describe("Program", func() {
	It("should pop in execution order", func() {
		prog := NewProgram(Inst(OpCLR, Reg(RegAR)), Inst(OpRET), Inst(OpLOAD, Text("x")))
		Expect(prog.Lines()).To(Equal([]string{"LOAD 'x'", "RET", "CLR $ar"}))

		inst, ok := prog.Pop()
		Expect(ok).To(BeTrue())
		Expect(inst.Op).To(Equal(OpLOAD))
		Expect(prog.Len()).To(Equal(2))
	})

	It("should parse lines given in execution order", func() {
		prog, err := ParseProgram([]string{"MOV %X $nr", "", "PUSH"})
		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Instructions()).To(Equal([]Instruction{Inst(OpPUSH), Inst(OpMOV, Var("X"), Reg(RegNR))}))
		Expect(prog.String()).To(Equal("MOV %X $nr\nPUSH"))
	})

	It("should name the failing line", func() {
		_, err := ParseProgram([]string{"PUSH", "FOO"})
		Expect(err).To(MatchError(ContainSubstring("bytecode line 2")))
		Expect(gnerror.HasCode(err, gnerror.CodeUnknownOpcode)).To(BeTrue())
	})

	It("should report an empty program", func() {
		_, ok := NewProgram().Pop()
		Expect(ok).To(BeFalse())
	})
})
