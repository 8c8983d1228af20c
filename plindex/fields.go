package plindex

import "strings"

// Field names one fixed-column span of a geographic header line.
type Field string

// FieldSpan is the half-open byte range of one field within a header line.
type FieldSpan struct {
	Name  Field
	Start int
	End   int
}

// Len reports the span's width in bytes.
func (s FieldSpan) Len() int { return s.End - s.Start }

// Geographic header field names, PL94-171. Both enumerated vintages
// share this layout.
const (
	FieldFILEID    Field = "FILEID"
	FieldSTUSAB    Field = "STUSAB"
	FieldSUMLEV    Field = "SUMLEV"
	FieldGEOCOMP   Field = "GEOCOMP"
	FieldCHARITER  Field = "CHARITER"
	FieldCIFSN     Field = "CIFSN"
	FieldLOGRECNO  Field = "LOGRECNO"
	FieldREGION    Field = "REGION"
	FieldDIVISION  Field = "DIVISION"
	FieldSTATE     Field = "STATE"
	FieldCOUNTY    Field = "COUNTY"
	FieldCOUNTYCC  Field = "COUNTYCC"
	FieldCOUNTYSC  Field = "COUNTYSC"
	FieldCOUSUB    Field = "COUSUB"
	FieldCOUSUBCC  Field = "COUSUBCC"
	FieldCOUSUBSC  Field = "COUSUBSC"
	FieldPLACE     Field = "PLACE"
	FieldPLACECC   Field = "PLACECC"
	FieldPLACESC   Field = "PLACESC"
	FieldTRACT     Field = "TRACT"
	FieldBLKGRP    Field = "BLKGRP"
	FieldBLOCK     Field = "BLOCK"
	FieldIUC       Field = "IUC"
	FieldCONCIT    Field = "CONCIT"
	FieldCONCITCC  Field = "CONCITCC"
	FieldCONCITSC  Field = "CONCITSC"
	FieldAIANHH    Field = "AIANHH"
	FieldAIANHHFP  Field = "AIANHHFP"
	FieldAIANHHCC  Field = "AIANHHCC"
	FieldAIHHTLI   Field = "AIHHTLI"
	FieldAITSCE    Field = "AITSCE"
	FieldAITS      Field = "AITS"
	FieldAITSCC    Field = "AITSCC"
	FieldTTRACT    Field = "TTRACT"
	FieldTBLKGRP   Field = "TBLKGRP"
	FieldANRC      Field = "ANRC"
	FieldANRCCC    Field = "ANRCCC"
	FieldCBSA      Field = "CBSA"
	FieldCBASC     Field = "CBASC"
	FieldMETDIV    Field = "METDIV"
	FieldCSA       Field = "CSA"
	FieldNECTA     Field = "NECTA"
	FieldNECTASC   Field = "NECTASC"
	FieldNECTADIV  Field = "NECTADIV"
	FieldCNECTA    Field = "CNECTA"
	FieldCBSAPCI   Field = "CBSAPCI"
	FieldNECTAPCI  Field = "NECTAPCI"
	FieldUA        Field = "UA"
	FieldUASC      Field = "UASC"
	FieldUATYPE    Field = "UATYPE"
	FieldUR        Field = "UR"
	FieldCD        Field = "CD"
	FieldSLDU      Field = "SLDU"
	FieldSLDL      Field = "SLDL"
	FieldVTD       Field = "VTD"
	FieldVTDI      Field = "VTDI"
	FieldRESERVE2  Field = "RESERVE2"
	FieldZCTA5     Field = "ZCTA5"
	FieldSUBMCD    Field = "SUBMCD"
	FieldSUBMCDCC  Field = "SUBMCDCC"
	FieldSDELM     Field = "SDELM"
	FieldSDSEC     Field = "SDSEC"
	FieldSDUNI     Field = "SDUNI"
	FieldAREALAND  Field = "AREALAND"
	FieldAREAWATR  Field = "AREAWATR"
	FieldNAME      Field = "NAME"
	FieldFUNCSTAT  Field = "FUNCSTAT"
	FieldGCUNI     Field = "GCUNI"
	FieldPOP100    Field = "POP100"
	FieldHU100     Field = "HU100"
	FieldINTPTLAT  Field = "INTPTLAT"
	FieldINTPTLON  Field = "INTPTLON"
	FieldLSADC     Field = "LSADC"
	FieldPARTFLAG  Field = "PARTFLAG"
	FieldRESERVE3  Field = "RESERVE3"
	FieldUGA       Field = "UGA"
	FieldSTATENS   Field = "STATENS"
	FieldCOUNTYNS  Field = "COUNTYNS"
	FieldCOUSUBNS  Field = "COUSUBNS"
	FieldPLACENS   Field = "PLACENS"
	FieldCONCITNS  Field = "CONCITNS"
	FieldAIANHHNS  Field = "AIANHHNS"
	FieldAITSNS    Field = "AITSNS"
	FieldANRCNS    Field = "ANRCNS"
	FieldSUBMCDNS  Field = "SUBMCDNS"
	FieldCD113     Field = "CD113"
	FieldCD114     Field = "CD114"
	FieldCD115     Field = "CD115"
	FieldSLDU2     Field = "SLDU2"
	FieldSLDU3     Field = "SLDU3"
	FieldSLDU4     Field = "SLDU4"
	FieldSLDL2     Field = "SLDL2"
	FieldSLDL3     Field = "SLDL3"
	FieldSLDL4     Field = "SLDL4"
	FieldAIANHHSC  Field = "AIANHHSC"
	FieldCSASC     Field = "CSASC"
	FieldCNECTASC  Field = "CNECTASC"
	FieldMEMI      Field = "MEMI"
	FieldNMEMI     Field = "NMEMI"
	FieldPUMA      Field = "PUMA"
	FieldRESERVED  Field = "RESERVED"
)

// pl94171HeaderCatalog is the single source of truth for the fixed-column
// geographic header layout: 101 fields spanning bytes 0..500, declared in
// field order. All three derived views below preserve this order.
var pl94171HeaderCatalog = []FieldSpan{
	{FieldFILEID, 0, 6},
	{FieldSTUSAB, 6, 8},
	{FieldSUMLEV, 8, 11},
	{FieldGEOCOMP, 11, 13},
	{FieldCHARITER, 13, 16},
	{FieldCIFSN, 16, 18},
	{FieldLOGRECNO, 18, 25},
	{FieldREGION, 25, 26},
	{FieldDIVISION, 26, 27},
	{FieldSTATE, 27, 29},
	{FieldCOUNTY, 29, 32},
	{FieldCOUNTYCC, 32, 34},
	{FieldCOUNTYSC, 34, 36},
	{FieldCOUSUB, 36, 41},
	{FieldCOUSUBCC, 41, 43},
	{FieldCOUSUBSC, 43, 45},
	{FieldPLACE, 45, 50},
	{FieldPLACECC, 50, 52},
	{FieldPLACESC, 52, 54},
	{FieldTRACT, 54, 60},
	{FieldBLKGRP, 60, 61},
	{FieldBLOCK, 61, 65},
	{FieldIUC, 65, 67},
	{FieldCONCIT, 67, 72},
	{FieldCONCITCC, 72, 74},
	{FieldCONCITSC, 74, 76},
	{FieldAIANHH, 76, 80},
	{FieldAIANHHFP, 80, 85},
	{FieldAIANHHCC, 85, 87},
	{FieldAIHHTLI, 87, 88},
	{FieldAITSCE, 88, 91},
	{FieldAITS, 91, 96},
	{FieldAITSCC, 96, 98},
	{FieldTTRACT, 98, 104},
	{FieldTBLKGRP, 104, 105},
	{FieldANRC, 105, 110},
	{FieldANRCCC, 110, 112},
	{FieldCBSA, 112, 117},
	{FieldCBASC, 117, 119},
	{FieldMETDIV, 119, 124},
	{FieldCSA, 124, 127},
	{FieldNECTA, 127, 132},
	{FieldNECTASC, 132, 134},
	{FieldNECTADIV, 134, 139},
	{FieldCNECTA, 139, 142},
	{FieldCBSAPCI, 142, 143},
	{FieldNECTAPCI, 143, 144},
	{FieldUA, 144, 149},
	{FieldUASC, 149, 151},
	{FieldUATYPE, 151, 152},
	{FieldUR, 152, 153},
	{FieldCD, 153, 155},
	{FieldSLDU, 155, 158},
	{FieldSLDL, 158, 161},
	{FieldVTD, 161, 167},
	{FieldVTDI, 167, 168},
	{FieldRESERVE2, 168, 171},
	{FieldZCTA5, 171, 176},
	{FieldSUBMCD, 176, 181},
	{FieldSUBMCDCC, 181, 183},
	{FieldSDELM, 183, 188},
	{FieldSDSEC, 188, 193},
	{FieldSDUNI, 193, 198},
	{FieldAREALAND, 198, 212},
	{FieldAREAWATR, 212, 226},
	{FieldNAME, 226, 316},
	{FieldFUNCSTAT, 316, 317},
	{FieldGCUNI, 317, 318},
	{FieldPOP100, 318, 327},
	{FieldHU100, 327, 336},
	{FieldINTPTLAT, 336, 347},
	{FieldINTPTLON, 347, 359},
	{FieldLSADC, 359, 361},
	{FieldPARTFLAG, 361, 362},
	{FieldRESERVE3, 362, 368},
	{FieldUGA, 368, 373},
	{FieldSTATENS, 373, 381},
	{FieldCOUNTYNS, 381, 389},
	{FieldCOUSUBNS, 389, 397},
	{FieldPLACENS, 397, 405},
	{FieldCONCITNS, 405, 413},
	{FieldAIANHHNS, 413, 421},
	{FieldAITSNS, 421, 429},
	{FieldANRCNS, 429, 437},
	{FieldSUBMCDNS, 437, 445},
	{FieldCD113, 445, 447},
	{FieldCD114, 447, 449},
	{FieldCD115, 449, 451},
	{FieldSLDU2, 451, 454},
	{FieldSLDU3, 454, 457},
	{FieldSLDU4, 457, 460},
	{FieldSLDL2, 460, 463},
	{FieldSLDL3, 463, 466},
	{FieldSLDL4, 466, 469},
	{FieldAIANHHSC, 469, 471},
	{FieldCSASC, 471, 473},
	{FieldCNECTASC, 473, 475},
	{FieldMEMI, 475, 476},
	{FieldNMEMI, 476, 477},
	{FieldPUMA, 477, 482},
	{FieldRESERVED, 482, 500},
}

// HeaderLineLength is the fixed content width of one geographic header
// line, in bytes, excluding the line terminator.
const HeaderLineLength = 500

// catalogFor returns the fixed-column field catalog for a release. Both
// enumerated vintages currently share pl94171HeaderCatalog.
func catalogFor(Release) []FieldSpan {
	return pl94171HeaderCatalog
}

// NamedField looks up a field's span by name within a release's catalog.
func NamedField(release Release, name Field) (FieldSpan, bool) {
	for _, span := range catalogFor(release) {
		if span.Name == name {
			return span, true
		}
	}
	return FieldSpan{}, false
}

// FieldValue pairs one catalog field with its substring of a header line.
type FieldValue struct {
	Field Field
	Value string
}

// AllFields returns every field with its raw, untrimmed substring, in
// declared catalog order.
func AllFields(release Release, line string) []FieldValue {
	catalog := catalogFor(release)
	out := make([]FieldValue, len(catalog))
	for i, span := range catalog {
		out[i] = FieldValue{Field: span.Name, Value: line[span.Start:span.End]}
	}
	return out
}

// AllFieldsTrimmed returns every field with whitespace trimmed from its
// substring, in declared catalog order.
func AllFieldsTrimmed(release Release, line string) []FieldValue {
	raw := AllFields(release, line)
	for i := range raw {
		raw[i].Value = strings.TrimSpace(raw[i].Value)
	}
	return raw
}

// Fields returns only the fields whose trimmed substring is non-empty,
// in declared catalog order.
func Fields(release Release, line string) []FieldValue {
	trimmed := AllFieldsTrimmed(release, line)
	out := trimmed[:0:0]
	for _, f := range trimmed {
		if f.Value != "" {
			out = append(out, f)
		}
	}
	return out
}
