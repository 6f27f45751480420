package cpudef

// Opcode tables, one entry per opcode byte. A leading '*' marks an
// undocumented opcode.

var nmos6502Table = [256]string{
	"BRK imp", "ORA dxi", "*JAM imp", "*SLO dxi", "*NOP dp", "ORA dp", "ASL dp", "*SLO dp",
	"PHP imp", "ORA imm", "ASL acc", "*ANC imm", "*NOP abs", "ORA abs", "ASL abs", "*SLO abs",
	"BPL rel", "ORA diy", "*JAM imp", "*SLO diy", "*NOP dpx", "ORA dpx", "ASL dpx", "*SLO dpx",
	"CLC imp", "ORA aby", "*NOP imp", "*SLO aby", "*NOP abx", "ORA abx", "ASL abx", "*SLO abx",
	"JSR abs", "AND dxi", "*JAM imp", "*RLA dxi", "BIT dp", "AND dp", "ROL dp", "*RLA dp",
	"PLP imp", "AND imm", "ROL acc", "*ANC imm", "BIT abs", "AND abs", "ROL abs", "*RLA abs",
	"BMI rel", "AND diy", "*JAM imp", "*RLA diy", "*NOP dpx", "AND dpx", "ROL dpx", "*RLA dpx",
	"SEC imp", "AND aby", "*NOP imp", "*RLA aby", "*NOP abx", "AND abx", "ROL abx", "*RLA abx",
	"RTI imp", "EOR dxi", "*JAM imp", "*SRE dxi", "*NOP dp", "EOR dp", "LSR dp", "*SRE dp",
	"PHA imp", "EOR imm", "LSR acc", "*ALR imm", "JMP abs", "EOR abs", "LSR abs", "*SRE abs",
	"BVC rel", "EOR diy", "*JAM imp", "*SRE diy", "*NOP dpx", "EOR dpx", "LSR dpx", "*SRE dpx",
	"CLI imp", "EOR aby", "*NOP imp", "*SRE aby", "*NOP abx", "EOR abx", "LSR abx", "*SRE abx",
	"RTS imp", "ADC dxi", "*JAM imp", "*RRA dxi", "*NOP dp", "ADC dp", "ROR dp", "*RRA dp",
	"PLA imp", "ADC imm", "ROR acc", "*ARR imm", "JMP ai", "ADC abs", "ROR abs", "*RRA abs",
	"BVS rel", "ADC diy", "*JAM imp", "*RRA diy", "*NOP dpx", "ADC dpx", "ROR dpx", "*RRA dpx",
	"SEI imp", "ADC aby", "*NOP imp", "*RRA aby", "*NOP abx", "ADC abx", "ROR abx", "*RRA abx",
	"*NOP imm", "STA dxi", "*NOP imm", "*SAX dxi", "STY dp", "STA dp", "STX dp", "*SAX dp",
	"DEY imp", "*NOP imm", "TXA imp", "*ANE imm", "STY abs", "STA abs", "STX abs", "*SAX abs",
	"BCC rel", "STA diy", "*JAM imp", "*SHA diy", "STY dpx", "STA dpx", "STX dpy", "*SAX dpy",
	"TYA imp", "STA aby", "TXS imp", "*TAS aby", "*SHY abx", "STA abx", "*SHX aby", "*SHA aby",
	"LDY imm", "LDA dxi", "LDX imm", "*LAX dxi", "LDY dp", "LDA dp", "LDX dp", "*LAX dp",
	"TAY imp", "LDA imm", "TAX imp", "*LXA imm", "LDY abs", "LDA abs", "LDX abs", "*LAX abs",
	"BCS rel", "LDA diy", "*JAM imp", "*LAX diy", "LDY dpx", "LDA dpx", "LDX dpy", "*LAX dpy",
	"CLV imp", "LDA aby", "TSX imp", "*LAS aby", "LDY abx", "LDA abx", "LDX aby", "*LAX aby",
	"CPY imm", "CMP dxi", "*NOP imm", "*DCP dxi", "CPY dp", "CMP dp", "DEC dp", "*DCP dp",
	"INY imp", "CMP imm", "DEX imp", "*SBX imm", "CPY abs", "CMP abs", "DEC abs", "*DCP abs",
	"BNE rel", "CMP diy", "*JAM imp", "*DCP diy", "*NOP dpx", "CMP dpx", "DEC dpx", "*DCP dpx",
	"CLD imp", "CMP aby", "*NOP imp", "*DCP aby", "*NOP abx", "CMP abx", "DEC abx", "*DCP abx",
	"CPX imm", "SBC dxi", "*NOP imm", "*ISC dxi", "CPX dp", "SBC dp", "INC dp", "*ISC dp",
	"INX imp", "SBC imm", "NOP imp", "*SBC imm", "CPX abs", "SBC abs", "INC abs", "*ISC abs",
	"BEQ rel", "SBC diy", "*JAM imp", "*ISC diy", "*NOP dpx", "SBC dpx", "INC dpx", "*ISC dpx",
	"SED imp", "SBC aby", "*NOP imp", "*ISC aby", "*NOP abx", "SBC abx", "INC abx", "*ISC abx",
}

var cmos65C02Table = [256]string{
	"BRK imp", "ORA dxi", "*NOP imm", "*NOP imp", "TSB dp", "ORA dp", "ASL dp", "*NOP imp",
	"PHP imp", "ORA imm", "ASL acc", "*NOP imp", "TSB abs", "ORA abs", "ASL abs", "*NOP imp",
	"BPL rel", "ORA diy", "ORA di", "*NOP imp", "TRB dp", "ORA dpx", "ASL dpx", "*NOP imp",
	"CLC imp", "ORA aby", "INC acc", "*NOP imp", "TRB abs", "ORA abx", "ASL abx", "*NOP imp",
	"JSR abs", "AND dxi", "*NOP imm", "*NOP imp", "BIT dp", "AND dp", "ROL dp", "*NOP imp",
	"PLP imp", "AND imm", "ROL acc", "*NOP imp", "BIT abs", "AND abs", "ROL abs", "*NOP imp",
	"BMI rel", "AND diy", "AND di", "*NOP imp", "BIT dpx", "AND dpx", "ROL dpx", "*NOP imp",
	"SEC imp", "AND aby", "DEC acc", "*NOP imp", "BIT abx", "AND abx", "ROL abx", "*NOP imp",
	"RTI imp", "EOR dxi", "*NOP imm", "*NOP imp", "*NOP dp", "EOR dp", "LSR dp", "*NOP imp",
	"PHA imp", "EOR imm", "LSR acc", "*NOP imp", "JMP abs", "EOR abs", "LSR abs", "*NOP imp",
	"BVC rel", "EOR diy", "EOR di", "*NOP imp", "*NOP dpx", "EOR dpx", "LSR dpx", "*NOP imp",
	"CLI imp", "EOR aby", "PHY imp", "*NOP imp", "*NOP abs", "EOR abx", "LSR abx", "*NOP imp",
	"RTS imp", "ADC dxi", "*NOP imm", "*NOP imp", "STZ dp", "ADC dp", "ROR dp", "*NOP imp",
	"PLA imp", "ADC imm", "ROR acc", "*NOP imp", "JMP ai", "ADC abs", "ROR abs", "*NOP imp",
	"BVS rel", "ADC diy", "ADC di", "*NOP imp", "STZ dpx", "ADC dpx", "ROR dpx", "*NOP imp",
	"SEI imp", "ADC aby", "PLY imp", "*NOP imp", "JMP axi", "ADC abx", "ROR abx", "*NOP imp",
	"BRA rel", "STA dxi", "*NOP imm", "*NOP imp", "STY dp", "STA dp", "STX dp", "*NOP imp",
	"DEY imp", "BIT imm", "TXA imp", "*NOP imp", "STY abs", "STA abs", "STX abs", "*NOP imp",
	"BCC rel", "STA diy", "STA di", "*NOP imp", "STY dpx", "STA dpx", "STX dpy", "*NOP imp",
	"TYA imp", "STA aby", "TXS imp", "*NOP imp", "STZ abs", "STA abx", "STZ abx", "*NOP imp",
	"LDY imm", "LDA dxi", "LDX imm", "*NOP imp", "LDY dp", "LDA dp", "LDX dp", "*NOP imp",
	"TAY imp", "LDA imm", "TAX imp", "*NOP imp", "LDY abs", "LDA abs", "LDX abs", "*NOP imp",
	"BCS rel", "LDA diy", "LDA di", "*NOP imp", "LDY dpx", "LDA dpx", "LDX dpy", "*NOP imp",
	"CLV imp", "LDA aby", "TSX imp", "*NOP imp", "LDY abx", "LDA abx", "LDX aby", "*NOP imp",
	"CPY imm", "CMP dxi", "*NOP imm", "*NOP imp", "CPY dp", "CMP dp", "DEC dp", "*NOP imp",
	"INY imp", "CMP imm", "DEX imp", "*NOP imp", "CPY abs", "CMP abs", "DEC abs", "*NOP imp",
	"BNE rel", "CMP diy", "CMP di", "*NOP imp", "*NOP dpx", "CMP dpx", "DEC dpx", "*NOP imp",
	"CLD imp", "CMP aby", "PHX imp", "*NOP imp", "*NOP abs", "CMP abx", "DEC abx", "*NOP imp",
	"CPX imm", "SBC dxi", "*NOP imm", "*NOP imp", "CPX dp", "SBC dp", "INC dp", "*NOP imp",
	"INX imp", "SBC imm", "NOP imp", "*NOP imp", "CPX abs", "SBC abs", "INC abs", "*NOP imp",
	"BEQ rel", "SBC diy", "SBC di", "*NOP imp", "*NOP dpx", "SBC dpx", "INC dpx", "*NOP imp",
	"SED imp", "SBC aby", "PLX imp", "*NOP imp", "*NOP abs", "SBC abx", "INC abx", "*NOP imp",
}

var w65816Table = [256]string{
	"BRK si", "ORA dxi", "COP si", "ORA sr", "TSB dp", "ORA dp", "ASL dp", "ORA dil",
	"PHP imp", "ORA ima", "ASL acc", "PHD imp", "TSB abs", "ORA abs", "ASL abs", "ORA al",
	"BPL rel", "ORA diy", "ORA di", "ORA sry", "TRB dp", "ORA dpx", "ASL dpx", "ORA dly",
	"CLC imp", "ORA aby", "INC acc", "TCS imp", "TRB abs", "ORA abx", "ASL abx", "ORA alx",
	"JSR abs", "AND dxi", "JSL al", "AND sr", "BIT dp", "AND dp", "ROL dp", "AND dil",
	"PLP imp", "AND ima", "ROL acc", "PLD imp", "BIT abs", "AND abs", "ROL abs", "AND al",
	"BMI rel", "AND diy", "AND di", "AND sry", "BIT dpx", "AND dpx", "ROL dpx", "AND dly",
	"SEC imp", "AND aby", "DEC acc", "TSC imp", "BIT abx", "AND abx", "ROL abx", "AND alx",
	"RTI imp", "EOR dxi", "WDM si", "EOR sr", "MVP bm", "EOR dp", "LSR dp", "EOR dil",
	"PHA imp", "EOR ima", "LSR acc", "PHK imp", "JMP abs", "EOR abs", "LSR abs", "EOR al",
	"BVC rel", "EOR diy", "EOR di", "EOR sry", "MVN bm", "EOR dpx", "LSR dpx", "EOR dly",
	"CLI imp", "EOR aby", "PHY imp", "TCD imp", "JML al", "EOR abx", "LSR abx", "EOR alx",
	"RTS imp", "ADC dxi", "PER per", "ADC sr", "STZ dp", "ADC dp", "ROR dp", "ADC dil",
	"PLA imp", "ADC ima", "ROR acc", "RTL imp", "JMP ai", "ADC abs", "ROR abs", "ADC al",
	"BVS rel", "ADC diy", "ADC di", "ADC sry", "STZ dpx", "ADC dpx", "ROR dpx", "ADC dly",
	"SEI imp", "ADC aby", "PLY imp", "TDC imp", "JMP axi", "ADC abx", "ROR abx", "ADC alx",
	"BRA rel", "STA dxi", "BRL rll", "STA sr", "STY dp", "STA dp", "STX dp", "STA dil",
	"DEY imp", "BIT ima", "TXA imp", "PHB imp", "STY abs", "STA abs", "STX abs", "STA al",
	"BCC rel", "STA diy", "STA di", "STA sry", "STY dpx", "STA dpx", "STX dpy", "STA dly",
	"TYA imp", "STA aby", "TXS imp", "TXY imp", "STZ abs", "STA abx", "STZ abx", "STA alx",
	"LDY imx", "LDA dxi", "LDX imx", "LDA sr", "LDY dp", "LDA dp", "LDX dp", "LDA dil",
	"TAY imp", "LDA ima", "TAX imp", "PLB imp", "LDY abs", "LDA abs", "LDX abs", "LDA al",
	"BCS rel", "LDA diy", "LDA di", "LDA sry", "LDY dpx", "LDA dpx", "LDX dpy", "LDA dly",
	"CLV imp", "LDA aby", "TSX imp", "TYX imp", "LDY abx", "LDA abx", "LDX aby", "LDA alx",
	"CPY imx", "CMP dxi", "REP imm", "CMP sr", "CPY dp", "CMP dp", "DEC dp", "CMP dil",
	"INY imp", "CMP ima", "DEX imp", "WAI imp", "CPY abs", "CMP abs", "DEC abs", "CMP al",
	"BNE rel", "CMP diy", "CMP di", "CMP sry", "PEI pei", "CMP dpx", "DEC dpx", "CMP dly",
	"CLD imp", "CMP aby", "PHX imp", "STP imp", "JML ail", "CMP abx", "DEC abx", "CMP alx",
	"CPX imx", "SBC dxi", "SEP imm", "SBC sr", "CPX dp", "SBC dp", "INC dp", "SBC dil",
	"INX imp", "SBC ima", "NOP imp", "XBA imp", "CPX abs", "SBC abs", "INC abs", "SBC al",
	"BEQ rel", "SBC diy", "SBC di", "SBC sry", "PEA pea", "SBC dpx", "INC dpx", "SBC dly",
	"SED imp", "SBC aby", "PLX imp", "XCE imp", "JSR axi", "SBC abx", "INC abx", "SBC alx",
}

var flowEffects = map[string]FlowEffect{
	"BPL": FlowConditionalBranch,
	"BMI": FlowConditionalBranch,
	"BVC": FlowConditionalBranch,
	"BVS": FlowConditionalBranch,
	"BCC": FlowConditionalBranch,
	"BCS": FlowConditionalBranch,
	"BNE": FlowConditionalBranch,
	"BEQ": FlowConditionalBranch,
	"BBR": FlowConditionalBranch,
	"BBS": FlowConditionalBranch,
	"BRA": FlowBranch,
	"BRL": FlowBranch,
	"JMP": FlowJump,
	"JML": FlowJump,
	"JSR": FlowCallSubroutine,
	"JSL": FlowCallSubroutine,
	"RTS": FlowReturn,
	"RTL": FlowReturn,
	"RTI": FlowReturn,
	"STP": FlowHalt,
	"JAM": FlowHalt,
}
