package vm

import (
	"bytes"
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	gnerror "github.com/msto63/galnotes/foundation/core/error"
	gnlog "github.com/msto63/galnotes/foundation/core/log"
)

var _ = Describe("Engine", func() {
	var e *Engine

	run := func(lines ...string) error {
		prog, err := ParseProgram(lines)
		Expect(err).NotTo(HaveOccurred())
		return e.Run(context.Background(), prog)
	}

	BeforeEach(func() {
		var err error
		e, err = New(Options{Logger: gnlog.Discard()})
		Expect(err).NotTo(HaveOccurred())
	})

	Context("Variables", func() {
		It("should pre-seed the numerals and the currency", func() {
			for name, value := range map[string]float64{
				"I": 1, "V": 5, "X": 10, "L": 50, "C": 100, "D": 500, "M": 1000,
			} {
				v, err := e.Load(name)
				Expect(err).NotTo(HaveOccurred())
				Expect(v.Value).To(Equal(value))
				Expect(v.Kind).To(Equal(KindNumeral))
				Expect(v.Builtin).To(BeTrue())
			}
			c, err := e.Load(DefaultCurrency)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Kind).To(Equal(KindCurrency))
			Expect(e.Variables().Len()).To(Equal(8))
		})

		It("should reject redefining any builtin", func() {
			for _, v := range e.Variables().All() {
				err := e.Store(Variable{Name: v.Name, Value: 42})
				Expect(gnerror.HasCode(err, gnerror.CodeDuplicateVariable)).To(BeTrue(), v.Name)
			}
			v, _ := e.Load("X")
			Expect(v.Value).To(Equal(10.0))
		})

		It("should fail loading an undefined name", func() {
			_, err := e.Load("glob")
			Expect(gnerror.HasCode(err, gnerror.CodeUndefinedVariable)).To(BeTrue())
		})

		It("should use a custom currency", func() {
			var err error
			e, err = New(Options{Logger: gnlog.Discard(), Currency: "Gold"})
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Variables().Has("Gold")).To(BeTrue())
			Expect(e.Variables().Has(DefaultCurrency)).To(BeFalse())
			Expect(e.Variables().Currency().Name).To(Equal("Gold"))
		})

		It("should refuse a currency named like a numeral", func() {
			for _, name := range []string{"X", "x", "M", "i"} {
				_, err := New(Options{Logger: gnlog.Discard(), Currency: name})
				Expect(gnerror.HasCode(err, gnerror.CodeInvalidInput)).To(BeTrue(), name)

				_, err = NewStore(name)
				Expect(gnerror.HasCode(err, gnerror.CodeInvalidInput)).To(BeTrue(), name)
			}
		})

		It("should refuse a currency of several words", func() {
			_, err := NewState("Space Credits")
			Expect(gnerror.HasCode(err, gnerror.CodeInvalidInput)).To(BeTrue())
		})

		It("should keep the numerals next to a valid currency", func() {
			s, err := NewStore("Xenons")
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Len()).To(Equal(8))
			x, err := s.Load("X")
			Expect(err).NotTo(HaveOccurred())
			Expect(x.Value).To(Equal(10.0))
			Expect(x.Kind).To(Equal(KindNumeral))
		})
	})

	Context("PUSH", func() {
		It("should add I then V to 6", func() {
			Expect(run("MOV %I $nr", "PUSH", "MOV %V $nr", "PUSH")).To(Succeed())
			Expect(e.Register(RegSR)).To(Equal(6.0))
		})

		It("should subtract a smaller numeral from the running total", func() {
			Expect(run("MOV %V $nr", "PUSH")).To(Succeed())
			Expect(e.Register(RegSR)).To(Equal(5.0))
			Expect(run("MOV %I $nr", "PUSH")).To(Succeed())
			Expect(e.Register(RegSR)).To(Equal(4.0))
		})

		It("should add when nr did not change", func() {
			Expect(run("MOV %I $nr", "PUSH", "MOV %I $nr", "PUSH", "MOV %I $nr", "PUSH")).To(Succeed())
			Expect(e.Register(RegSR)).To(Equal(3.0))
			Expect(e.State().NumeralChanged()).To(BeFalse())
		})

		It("should count a real change only", func() {
			Expect(run("MOV 5 $nr")).To(Succeed())
			Expect(e.State().NumeralChanged()).To(BeTrue())
			Expect(run("PUSH", "MOV 5 $nr")).To(Succeed())
			Expect(e.State().NumeralChanged()).To(BeFalse())
		})
	})

	Context("DIV and MUL", func() {
		It("should divide b by a", func() {
			Expect(run("MOV 4 $ar", "MOV 10 $br", "DIV $ar $br")).To(Succeed())
			Expect(e.Register(RegBR)).To(Equal(2.5))
			Expect(e.State().RegisterKind(RegBR)).To(Equal(KindCommodity))
		})

		It("should fail on division by zero and keep b", func() {
			Expect(run("MOV 10 $br")).To(Succeed())
			err := run("DIV $ar $br")
			Expect(gnerror.HasCode(err, gnerror.CodeDivisionByZero)).To(BeTrue())
			Expect(e.Register(RegBR)).To(Equal(10.0))
		})

		It("should multiply b by a", func() {
			Expect(run("MOV 3 $ar", "MOV 7 $br", "MUL $ar $br")).To(Succeed())
			Expect(e.Register(RegBR)).To(Equal(21.0))
			Expect(e.State().RegisterKind(RegBR)).To(Equal(KindCurrency))
		})

		It("should reject non-register operands", func() {
			err := e.Execute(Inst(OpMUL, Lit(3), Reg(RegAR)))
			Expect(gnerror.HasCode(err, gnerror.CodeOperandClass)).To(BeTrue())
		})

		It("should reject writing the running total", func() {
			err := e.Execute(Inst(OpDIV, Reg(RegAR), Reg(RegSR)))
			Expect(gnerror.HasCode(err, gnerror.CodeOperandClass)).To(BeTrue())
		})
	})

	Context("MOV", func() {
		It("should reject variable to variable", func() {
			err := e.Execute(Inst(OpMOV, Var("X"), Var("glob")))
			Expect(gnerror.HasCode(err, gnerror.CodeOperandClass)).To(BeTrue())
			Expect(e.Variables().Has("glob")).To(BeFalse())
		})

		It("should reject the text register", func() {
			err := e.Execute(Inst(OpMOV, Reg(RegPR), Reg(RegAR)))
			Expect(gnerror.HasCode(err, gnerror.CodeOperandClass)).To(BeTrue())
		})

		It("should store a new variable with the register kind", func() {
			Expect(run("MOV %X $ar", "MOV $ar %glob")).To(Succeed())
			v, err := e.Load("glob")
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Value).To(Equal(10.0))
			Expect(v.Kind).To(Equal(KindNumeral))
			Expect(v.Builtin).To(BeFalse())
		})

		It("should fail to store an existing variable", func() {
			Expect(run("MOV 3 $ar", "MOV $ar %glob")).To(Succeed())
			err := run("MOV 4 $ar", "MOV $ar %glob")
			Expect(gnerror.HasCode(err, gnerror.CodeDuplicateVariable)).To(BeTrue())
			v, _ := e.Load("glob")
			Expect(v.Value).To(Equal(3.0))
		})

		It("should fail on an undefined source", func() {
			err := run("MOV %glob $ar")
			Expect(gnerror.HasCode(err, gnerror.CodeUndefinedVariable)).To(BeTrue())
		})

		It("should refuse a commodity as numeral", func() {
			Expect(e.Store(Variable{Name: "Silver", Value: 17, Kind: KindCommodity})).To(Succeed())
			err := run("MOV %Silver $nr")
			Expect(gnerror.HasCode(err, gnerror.CodeKindMismatch)).To(BeTrue())
		})
	})

	Context("POP", func() {
		It("should copy the running total", func() {
			Expect(run("MOV %X $nr", "PUSH", "POP $br")).To(Succeed())
			Expect(e.Register(RegBR)).To(Equal(10.0))
		})

		It("should reject nr, pr and sr", func() {
			for _, r := range []Register{RegNR, RegPR, RegSR} {
				err := e.Execute(Inst(OpPOP, Reg(r)))
				Expect(gnerror.HasCode(err, gnerror.CodeOperandClass)).To(BeTrue(), r.String())
			}
		})
	})

	Context("LOAD and RET", func() {
		It("should resolve the placeholder and raise output", func() {
			Expect(run("LOAD 'X V is $rr'", "MOV 15 $rr", "RET")).To(Succeed())
			Expect(e.Output()).To(Equal("X V is 15"))
			Expect(e.HasOutput()).To(BeTrue())
		})

		It("should print fractions in shortest form", func() {
			Expect(run("LOAD '$rr'", "MOV 195.5 $rr", "RET")).To(Succeed())
			Expect(e.Output()).To(Equal("195.5"))
		})

		It("should clear the output flag on the next program", func() {
			Expect(run("LOAD 'a'", "RET")).To(Succeed())
			Expect(run("CLR $ar")).To(Succeed())
			Expect(e.HasOutput()).To(BeFalse())
		})

		It("should require a text operand", func() {
			err := e.Execute(Inst(OpLOAD, Lit(1)))
			Expect(gnerror.HasCode(err, gnerror.CodeOperandClass)).To(BeTrue())
		})
	})

	Context("Dispatch", func() {
		It("should reject unknown opcodes", func() {
			err := e.Execute(Inst(Opcode(99)))
			Expect(gnerror.HasCode(err, gnerror.CodeUnknownOpcode)).To(BeTrue())
		})

		It("should reject wrong operand counts", func() {
			err := e.Execute(Inst(OpPUSH, Reg(RegAR)))
			Expect(gnerror.HasCode(err, gnerror.CodeOperandCount)).To(BeTrue())
			err = e.Execute(Inst(OpMOV, Reg(RegAR)))
			Expect(gnerror.HasCode(err, gnerror.CodeOperandCount)).To(BeTrue())
		})

		It("should clear registers", func() {
			Expect(run("MOV 3 $ar", "LOAD 'x'", "CLR $ar", "CLR $pr")).To(Succeed())
			Expect(e.Register(RegAR)).To(Equal(0.0))
			Expect(e.Output()).To(BeEmpty())
		})
	})

	Context("HALT", func() {
		It("should stop the program", func() {
			Expect(run("HALT", "MOV 3 $ar")).To(Succeed())
			Expect(e.Halted()).To(BeTrue())
			Expect(e.Register(RegAR)).To(Equal(0.0))
		})

		It("should refuse instructions after a halt", func() {
			Expect(e.Execute(Inst(OpHALT))).To(Succeed())
			err := e.Execute(Inst(OpCLR, Reg(RegAR)))
			Expect(gnerror.HasCode(err, gnerror.CodeExecution)).To(BeTrue())
		})
	})

	Context("Run", func() {
		It("should stop on a canceled context", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			prog, _ := ParseProgram([]string{"MOV 3 $ar"})
			err := e.Run(ctx, prog)
			Expect(gnerror.HasCode(err, gnerror.CodeCanceled)).To(BeTrue())
			Expect(prog.Len()).To(Equal(1))
		})

		It("should reset registers but keep variables", func() {
			Expect(run("MOV 3 $ar", "MOV $ar %glob", "MOV %X $nr", "LOAD 'x'", "RET")).To(Succeed())
			e.Reset()
			Expect(e.Register(RegAR)).To(Equal(0.0))
			Expect(e.Register(RegNR)).To(Equal(0.0))
			Expect(e.HasOutput()).To(BeFalse())
			Expect(e.State().NumeralChanged()).To(BeFalse())
			Expect(e.Variables().Has("glob")).To(BeTrue())
		})
	})

	Context("Dump", func() {
		It("should render registers and variables", func() {
			Expect(run("MOV 3 $ar", "MOV $ar %glob")).To(Succeed())
			var buf bytes.Buffer
			Expect(e.Dump(&buf)).To(Succeed())
			out := buf.String()
			Expect(out).To(ContainSubstring("Registers"))
			Expect(out).To(ContainSubstring("$ar"))
			Expect(out).To(ContainSubstring("glob"))
			Expect(out).To(ContainSubstring("NUMERAL"))
		})
	})
})
