package pdf

import (
	"bytes"
	"encoding/xml"
	"text/template"
	"time"
)

// Metadata is the document information written to the XMP packet.
type Metadata struct {
	Created      time.Time
	Title        string
	Language     string
	Creator      string
	Conformance  string
	ColorProfile string
}

var xmpTemplate = template.Must(template.New("xmp").Funcs(template.FuncMap{
	"x": func(s string) (string, error) {
		var b bytes.Buffer
		err := xml.EscapeText(&b, []byte(s))
		return b.String(), err
	},
}).Parse(`<?xpacket begin="` + "\ufeff" + `" id="W5M0MpCehiHzreSzNTczkc9d"?>
<x:xmpmeta xmlns:x="adobe:ns:meta/">
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
<rdf:Description rdf:about="" xmlns:pdfaid="http://www.aiim.org/pdfa/ns/id/">
<pdfaid:part>1</pdfaid:part>
<pdfaid:conformance>{{x .Conformance}}</pdfaid:conformance>
</rdf:Description>
<rdf:Description rdf:about="" xmlns:dc="http://purl.org/dc/elements/1.1/">
<dc:format>application/pdf</dc:format>
<dc:title><rdf:Alt><rdf:li xml:lang="x-default">{{x .Title}}</rdf:li></rdf:Alt></dc:title>
<dc:language><rdf:Bag><rdf:li>{{x .Language}}</rdf:li></rdf:Bag></dc:language>
<dc:creator><rdf:Seq><rdf:li>{{x .Creator}}</rdf:li></rdf:Seq></dc:creator>
</rdf:Description>
<rdf:Description rdf:about="" xmlns:xmp="http://ns.adobe.com/xap/1.0/">
<xmp:CreateDate>{{.Created.Format "2006-01-02T15:04:05Z07:00"}}</xmp:CreateDate>
<xmp:CreatorTool>{{x .Creator}}</xmp:CreatorTool>
</rdf:Description>
<rdf:Description rdf:about="" xmlns:pdf="http://ns.adobe.com/pdf/1.3/">
<pdf:Producer>{{x .Creator}}</pdf:Producer>
</rdf:Description>
<rdf:Description rdf:about="" xmlns:pdfx="http://ns.adobe.com/pdfx/1.3/">
<pdfx:OutputIntentIdentifier>{{x .ColorProfile}}</pdfx:OutputIntentIdentifier>
</rdf:Description>
</rdf:RDF>
</x:xmpmeta>
<?xpacket end="w"?>`))

// XMP renders the metadata packet declaring PDF/A-1 conformance.
func (m Metadata) XMP() ([]byte, error) {
	var buf bytes.Buffer
	if err := xmpTemplate.Execute(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
