package web

import "html/template"

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Vaccine Slots</title>
<style>
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: center; }
td.center { text-align: left; }
td.available { background: #c8f7c5; font-weight: bold; }
</style>
</head>
<body>
<form action="/search" method="get">
  <label>Age
    <select id="AgeDropdown" name="age">
      <option value="18"{{if eq .Query.MinAge 18}} selected{{end}}>18+</option>
      <option value="45"{{if eq .Query.MinAge 45}} selected{{end}}>45+</option>
    </select>
  </label>
  <label>Dose
    <select name="dose">
      <option value="0">Any</option>
      <option value="1"{{if eq (printf "%d" .Query.Dose) "1"}} selected{{end}}>Dose 1</option>
      <option value="2"{{if eq (printf "%d" .Query.Dose) "2"}} selected{{end}}>Dose 2</option>
    </select>
  </label>
  <label>State <select id="StateDropdown"><option value="">--</option></select></label>
  <label>District <select id="DistrictDropdown" name="district"><option value="">--</option></select></label>
  <label>or Pincode <input id="PincodeTextBox" name="pincode" value="{{.Query.Pincode}}" size="6"></label>
  <label>Date <input id="DateTextBox" name="date" type="date" value="{{if .Query.Date}}{{.Query.Date}}{{else}}{{.Today}}{{end}}"></label>
  <button type="submit">Search</button>
</form>
<div id="ResultDiv">{{.Message}}</div>
{{.Table}}
<script>
const stateDropdown = document.getElementById('StateDropdown');
const districtDropdown = document.getElementById('DistrictDropdown');
fetch('/api/states').then(r => r.json()).then(data => {
  (data.states || []).forEach(s => stateDropdown.add(new Option(s.state_name, s.state_id)));
});
stateDropdown.addEventListener('change', () => {
  districtDropdown.length = 1;
  if (!stateDropdown.value) return;
  fetch('/api/districts/' + stateDropdown.value).then(r => r.json()).then(data => {
    (data.districts || []).forEach(d => districtDropdown.add(new Option(d.district_name, d.district_id)));
  });
});
</script>
</body>
</html>
`))
