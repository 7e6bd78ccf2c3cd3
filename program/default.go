package program

func boolValue(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func instADD(src1 int32, src2 int32) int32 {
	return src1 + src2
}

func instSUB(src1 int32, src2 int32) int32 {
	return src1 - src2
}

func instMUL(src1 int32, src2 int32) int32 {
	return src1 * src2
}

// instDIV and instMOD expect a non-zero divisor; the machine faults first.
func instDIV(src1 int32, src2 int32) int32 {
	return src1 / src2
}

func instMOD(src1 int32, src2 int32) int32 {
	return src1 % src2
}

func instAND(src1 int32, src2 int32) int32 {
	return boolValue(src1 != 0 && src2 != 0)
}

func instOR(src1 int32, src2 int32) int32 {
	return boolValue(src1 != 0 || src2 != 0)
}

func instEQ(src1 int32, src2 int32) int32 {
	return boolValue(src1 == src2)
}

func instNE(src1 int32, src2 int32) int32 {
	return boolValue(src1 != src2)
}

func instLT(src1 int32, src2 int32) int32 {
	return boolValue(src1 < src2)
}

func instLE(src1 int32, src2 int32) int32 {
	return boolValue(src1 <= src2)
}

func instGT(src1 int32, src2 int32) int32 {
	return boolValue(src1 > src2)
}

func instGE(src1 int32, src2 int32) int32 {
	return boolValue(src1 >= src2)
}
